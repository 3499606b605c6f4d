package library

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStudent(t *testing.T, email string) *Patron {
	t.Helper()
	p, err := NewPatron("student", "Reader", email, "CS")
	require.NoError(t, err)
	return p
}

func TestLedger_PhysicalLoanPostsPenaltyOnce(t *testing.T) {
	tests := []struct {
		name      string
		condition Condition
		ret       string
		want      float64
	}{
		{"good_within_grace", ConditionGood, "2024-01-15", 0},
		{"worn_within_grace", ConditionWorn, "2024-01-10", 0},
		{"good_19_days", ConditionGood, "2024-01-20", 5},
		{"worn_19_days", ConditionWorn, "2024-01-20", 15},
		{"good_first_chargeable_day", ConditionGood, "2024-01-16", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger()
			p := newStudent(t, "a@x.com")
			item := Item{Kind: KindPhysical, Title: "Dune", Condition: tt.condition}

			loan, err := ledger.CreateLoan("physical", date(t, "2024-01-01"), date(t, tt.ret), item, p)
			require.NoError(t, err)

			assert.Equal(t, tt.want, loan.Penalty())
			assert.Equal(t, tt.want, loan.Posted())
			assert.Equal(t, tt.want, p.PenaltyBalance())

			// Recomputing never posts again.
			again, err := loan.ComputePenalty(date(t, tt.ret))
			require.NoError(t, err)
			assert.Equal(t, tt.want, again)
			assert.Equal(t, tt.want, p.PenaltyBalance())
		})
	}
}

func TestLedger_ComputePenaltyUsesCallerDate(t *testing.T) {
	ledger := NewLedger()
	p := newStudent(t, "a@x.com")
	item := Item{Kind: KindPhysical, Title: "Dune"}

	loan, err := ledger.CreateLoan("physical", date(t, "2024-01-01"), date(t, "2024-01-10"), item, p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, loan.Penalty())

	later, err := loan.ComputePenalty(date(t, "2024-01-25"))
	require.NoError(t, err)
	assert.Equal(t, 10.0, later)
	assert.Equal(t, 0.0, p.PenaltyBalance())

	_, err = loan.ComputePenalty(date(t, "2023-12-31"))
	assert.ErrorIs(t, err, ErrIllegalDateRange)
}

func TestLedger_DigitalLoanNeverPosts(t *testing.T) {
	ledger := NewLedger()
	p := newStudent(t, "a@x.com")
	item := Item{Kind: KindDigital, Title: "Go", Format: "PDF"}

	loan, err := ledger.CreateLoan("digital", date(t, "2024-01-01"), date(t, "2024-01-31"), item, p)
	require.NoError(t, err)

	got, err := loan.ComputePenalty(date(t, "2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 80.0, got)
	assert.Equal(t, 80.0, loan.Penalty())
	assert.Equal(t, 0.0, loan.Posted())
	assert.Equal(t, 0.0, p.PenaltyBalance())
}

func TestLedger_CountersAndHistory(t *testing.T) {
	ledger := NewLedger()
	a := newStudent(t, "a@x.com")
	b := newStudent(t, "b@x.com")
	book := Item{Kind: KindPhysical, Title: "Dune"}
	ebook := Item{Kind: KindDigital, Title: "Go"}

	l1, err := ledger.CreateLoan("physical", date(t, "2024-01-01"), date(t, "2024-01-05"), book, a)
	require.NoError(t, err)
	l2, err := ledger.CreateLoan("digital", date(t, "2024-01-02"), date(t, "2024-01-06"), ebook, b)
	require.NoError(t, err)
	l3, err := ledger.CreateLoan("Digitala", date(t, "2024-01-03"), date(t, "2024-01-07"), ebook, a)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, []int{l1.ID, l2.ID, l3.ID})
	assert.Equal(t, 3, ledger.TotalLoans())
	assert.Len(t, ledger.Loans(), 3)
	assert.Equal(t, []*Loan{l1, l3}, ledger.LoansFor("a@x.com"))

	h := a.History()
	require.Len(t, h, 2)
	assert.Equal(t, LoanRecord{ItemTitle: "Dune", BorrowDate: date(t, "2024-01-01"), ReturnDate: date(t, "2024-01-05")}, h[0])
	assert.Equal(t, "Go", h[1].ItemTitle)
}

func TestLedger_LoanSnapshotsItem(t *testing.T) {
	ledger := NewLedger()
	p := newStudent(t, "a@x.com")
	item := Item{Kind: KindPhysical, Title: "Dune", Condition: ConditionGood}

	loan, err := ledger.CreateLoan("physical", date(t, "2024-01-01"), date(t, "2024-01-20"), item, p)
	require.NoError(t, err)

	item.Condition = ConditionWorn
	assert.Equal(t, ConditionGood, loan.Item.Condition)
	assert.Equal(t, 5.0, loan.Penalty())
}

func TestLedger_RejectsWithoutMutation(t *testing.T) {
	book := Item{Kind: KindPhysical, Title: "Dune"}

	tests := []struct {
		name   string
		kind   string
		ret    string
		target error
	}{
		{"illegal_range", "physical", "2023-12-20", ErrIllegalDateRange},
		{"unknown_kind", "audio", "2024-01-20", ErrUnknownKind},
		{"kind_mismatch", "digital", "2024-01-20", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger()
			p := newStudent(t, "a@x.com")

			loan, err := ledger.CreateLoan(tt.kind, date(t, "2024-01-01"), date(t, tt.ret), book, p)
			require.Error(t, err)
			assert.Nil(t, loan)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			} else {
				var verr *ValidationError
				assert.True(t, errors.As(err, &verr))
			}

			assert.Equal(t, 0, ledger.TotalLoans())
			assert.Empty(t, p.History())
			assert.Equal(t, 0.0, p.PenaltyBalance())
		})
	}
}

func TestLedger_NilPatron(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.CreateLoan("physical", date(t, "2024-01-01"), date(t, "2024-01-02"), Item{Kind: KindPhysical}, nil)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestLedger_FlatFormula(t *testing.T) {
	ledger := NewLedger(WithPolicy(PenaltyPolicy{Formula: FormulaFlat, GraceDays: DefaultGraceDays}))
	p := newStudent(t, "a@x.com")
	worn := Item{Kind: KindPhysical, Title: "Dune", Condition: ConditionWorn}

	_, err := ledger.CreateLoan("physical", date(t, "2024-01-01"), date(t, "2024-01-20"), worn, p)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.PenaltyBalance())
}

type failingObserver struct{ calls int }

func (f *failingObserver) ObserveLoan(*Loan, float64) error {
	f.calls++
	return errors.New("boom")
}

func TestLedger_ObserverFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	obs := &failingObserver{}
	ledger := NewLedger(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithObserver(obs),
	)
	p := newStudent(t, "a@x.com")

	loan, err := ledger.CreateLoan("physical", date(t, "2024-01-01"), date(t, "2024-01-02"), Item{Kind: KindPhysical, Title: "X"}, p)
	require.NoError(t, err)
	assert.NotNil(t, loan)
	assert.Equal(t, 1, obs.calls)
	assert.Contains(t, buf.String(), "loan observer failed")
}

func TestLoan_ResolvesPatronThroughDirectory(t *testing.T) {
	dir := NewDirectory()
	p := newStudent(t, "a@x.com")
	dir.Register(p)

	loan, err := NewLedger().CreateLoan("physical", date(t, "2024-01-01"), date(t, "2024-01-20"), Item{Kind: KindPhysical, Title: "Dune"}, p)
	require.NoError(t, err)

	got, err := loan.Patron(dir)
	require.NoError(t, err)
	assert.Same(t, p, got)
	assert.Equal(t, 5.0, got.PenaltyBalance())
	assert.Contains(t, loan.Summary(), "Loan ID: 1, Borrowed: 2024-01-01, Returned: 2024-01-20, Patron: a@x.com, Penalty: 5.00 RON")
}
