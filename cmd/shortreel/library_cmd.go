package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortreel/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List generated videos",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		records, err := library.New(cfg.Paths.Library).All()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no videos yet")
			return nil
		}

		for _, rec := range records {
			fmt.Printf("%s  %s\n", rec.Timestamp, rec.ID)
			fmt.Printf("    prompt: %s\n", rec.Prompt)
			fmt.Printf("    local:  %s\n", rec.LocalPath)
			if rec.ArtifactURL != "" {
				fmt.Printf("    hosted: %s\n", rec.ArtifactURL)
			}
		}
		return nil
	},
}
