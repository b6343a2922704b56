package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shortreel/audio"
	"shortreel/library"
	"shortreel/media"
	"shortreel/planner"
	"shortreel/publish"
	"shortreel/session"
	"shortreel/video"
)

var generateCmd = &cobra.Command{
	Use:   "generate <brief...>",
	Short: "Generate one video from a free-text brief",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger()
		brief := strings.Join(args, " ")

		director, err := planner.New(os.Getenv("OPENAI_API_KEY"), cfg.Planner, log)
		if err != nil {
			return err
		}

		var classifier media.Classifier
		if cfg.Verify.Enabled {
			if key := os.Getenv("OPENAI_API_KEY"); key != "" {
				classifier = media.NewVisionClassifier(key, cfg.Verify.Model)
			} else {
				log.Warn().Msg("OPENAI_API_KEY missing, visual verification disabled")
			}
		}

		aggregator := media.FromEnv(cfg.Media, log)
		verifier := media.NewVerifier(classifier, cfg.Verify.FailOpen, log)
		resolver := media.NewResolver(aggregator, verifier, media.NewSeenIDSet(), log)

		narrator := audio.NewNarrator(audio.NewEdgeSpeech(cfg.Audio, log), log)
		editor := video.NewEditor(cfg.Video, cfg.Captions, log)
		assembler := video.NewAssembler(log)

		var store session.Store
		switch cfg.Publish.Target {
		case "cloudinary":
			if c := publish.NewCloudinary(log); c != nil {
				store = c
			}
		case "youtube":
			if y := publish.NewYouTube(cfg.Publish, log); y != nil {
				store = y
			}
		}

		controller := session.New(director, resolver, narrator, editor, assembler,
			cfg.Paths.TempBase, cfg.Paths.ResultBase, cfg.Workers,
			session.Options{
				Store:    store,
				Library:  library.New(cfg.Paths.Library),
				Observer: session.LogObserver{Log: log},
			}, log)

		rec, err := controller.Run(cmd.Context(), brief)
		if err != nil {
			return err
		}

		fmt.Printf("video ready: %s\n", rec.LocalPath)
		if rec.ArtifactURL != "" {
			fmt.Printf("hosted at:   %s\n", rec.ArtifactURL)
		}
		return nil
	},
}
