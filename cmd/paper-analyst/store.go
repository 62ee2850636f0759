package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-analyst/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect or export the paper metadata store",
	Long: `Store reads the local research_papers database. Use subcommands to look
up a single paper, list everything, or export the table to YAML and JSON.`,
}

var storeGetCmd = &cobra.Command{
	Use:   "get [paper-id]",
	Short: "Print the stored metadata for one paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(storageConfig(cmd))
		if err != nil {
			return err
		}
		defer st.Close()

		paper, err := st.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", paper.Title)
		fmt.Printf("  ID:       %s\n", paper.PaperID)
		fmt.Printf("  Authors:  %s\n", joinAuthors(paper.Authors))
		fmt.Printf("  Journal:  %s\n", paper.Journal)
		if paper.DOI != "" {
			fmt.Printf("  DOI:      %s\n", paper.DOI)
		}
		fmt.Printf("  Date:     %s\n", paper.SubmissionDate.Format("2006-01-02"))
		fmt.Printf("  PDF:      %s\n", paper.PDFFilePath)
		fmt.Printf("  Abstract: %s\n", paper.Abstract)
		return nil
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(storageConfig(cmd))
		if err != nil {
			return err
		}
		defer st.Close()

		papers, err := st.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(papers) == 0 {
			fmt.Println("No papers stored.")
			return nil
		}

		for _, paper := range papers {
			marker := " "
			if paper.PDFFilePath == "" {
				marker = "!"
			}
			fmt.Printf("%s %-20s  %s  %s\n", marker, paper.PaperID,
				paper.SubmissionDate.Format("2006-01-02"), paper.Title)
		}
		fmt.Printf("\n%d paper(s); '!' marks metadata-only entries without a PDF\n", len(papers))
		return nil
	},
}

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the metadata table to YAML and JSON files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := storageConfig(cmd)
		st, err := store.New(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		yamlPath := filepath.Join(cfg.StorageRoot, "export.yaml")
		jsonPath := filepath.Join(cfg.StorageRoot, "export.json")

		if err := st.ExportYAML(cmd.Context(), yamlPath); err != nil {
			return err
		}
		if err := st.ExportJSON(cmd.Context(), jsonPath); err != nil {
			return err
		}
		fmt.Printf("Exported %s and %s\n", yamlPath, jsonPath)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{storeGetCmd, storeListCmd, storeExportCmd} {
		c.Flags().String("storage-root", "", "directory for downloaded PDFs and exports")
		c.Flags().String("store", "", "SQLite database path for paper metadata")
		storeCmd.AddCommand(c)
	}
	rootCmd.AddCommand(storeCmd)
}
