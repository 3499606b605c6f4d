package main

import (
	"fmt"
	"os"

	"library-loans/config"
	"library-loans/library"
)

// import_catalog checks a seed file against the item and patron factories
// and prints the resulting title-sorted catalog.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: import_catalog <seed.yaml>")
		os.Exit(2)
	}
	seedPath := os.Args[1]

	seed, err := config.LoadSeed(seedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading seed: %v\n", err)
		os.Exit(1)
	}

	manager, err := library.NewLibraryManager(library.ManagerOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating library: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Importing items from %s...\n", seedPath)
	successCount := 0
	errorCount := 0

	for _, si := range seed.Items {
		fmt.Printf("Importing: %s by %s... ", si.Title, si.Author)
		it, err := manager.AddItem(si.Kind, si.Title, si.Author, si.Year, library.ItemDetails{
			Pages:      si.Pages,
			Condition:  si.Condition,
			FileSizeMB: si.FileSizeMB,
			Format:     si.Format,
		})
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (%s)\n", it.Kind)
		successCount++
	}

	for _, sp := range seed.Patrons {
		fmt.Printf("Registering: %s <%s>... ", sp.Name, sp.Email)
		p, replaced, err := manager.AddPatron(sp.Category, sp.Name, sp.Email, sp.Affiliation)
		switch {
		case err != nil:
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
		case replaced:
			fmt.Printf("REPLACED earlier entry (%s)\n", p.Category)
			successCount++
		default:
			fmt.Printf("SUCCESS (%s, limit %d)\n", p.Category, p.LoanLimit())
			successCount++
		}
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d entries\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if items := manager.SortedItems(); len(items) > 0 {
		fmt.Println("\nCatalog:")
		fmt.Println(library.PrettyHeader())
		for _, it := range items {
			fmt.Println(library.PrettyItem(it))
		}
	}

	manager.Close()
	if errorCount > 0 {
		os.Exit(1)
	}
}
