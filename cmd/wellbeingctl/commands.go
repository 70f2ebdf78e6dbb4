package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-wellbeing-backend/internal/assessment"
	"github.com/tbourn/go-wellbeing-backend/internal/config"
	"github.com/tbourn/go-wellbeing-backend/internal/contentguard"
	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/http/middleware"
	"github.com/tbourn/go-wellbeing-backend/internal/services"
)

func migrateCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := g.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func blacklistCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Manage blacklisted words",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List blacklisted words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := g.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			items, err := services.NewBlacklistService(db).List(cmd.Context())
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), items, func(w io.Writer) {
				for _, e := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Word, e.Description)
				}
			})
		},
	}

	var description string
	add := &cobra.Command{
		Use:   "add <word>",
		Short: "Add a blacklisted word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := g.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			e, err := services.NewBlacklistService(db).Create(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), e, func(w io.Writer) {
				fmt.Fprintf(w, "added %q (%s)\n", e.Word, e.ID)
			})
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "why the word is blocked")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a blacklisted word by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := g.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			if err := services.NewBlacklistService(db).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func applicationsCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Review organization and professional applications",
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List applications in a status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := g.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			svc := &services.ApplicationService{DB: db}
			items, err := svc.ListByStatus(cmd.Context(), domain.ApplicationStatus(status))
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), items, func(w io.Writer) {
				for _, a := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Kind, a.Status, a.Name)
				}
			})
		},
	}
	list.Flags().StringVar(&status, "status", string(domain.StatusPending), "pending|approved|rejected")

	var reviewer string
	decide := func(use, short string, approve bool) *cobra.Command {
		c := &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := g.openDB()
				if err != nil {
					return err
				}
				defer closeDB(db)
				svc := &services.ApplicationService{DB: db}

				var (
					app *domain.Application
					org *domain.Organization
				)
				if approve {
					app, org, err = svc.Approve(cmd.Context(), reviewer, args[0])
				} else {
					app, err = svc.Reject(cmd.Context(), reviewer, args[0])
				}
				if err != nil {
					return err
				}
				out := struct {
					Application  *domain.Application  `json:"application"`
					Organization *domain.Organization `json:"organization,omitempty"`
				}{app, org}
				return g.emit(cmd.OutOrStdout(), out, func(w io.Writer) {
					fmt.Fprintf(w, "%s %s\n", app.ID, app.Status)
					if org != nil {
						fmt.Fprintf(w, "organization %s created\n", org.ID)
					}
				})
			},
		}
		c.Flags().StringVar(&reviewer, "reviewer", "cli", "reviewer ID recorded on the decision")
		return c
	}

	cmd.AddCommand(list,
		decide("approve", "Approve a pending application", true),
		decide("reject", "Reject a pending application", false),
	)
	return cmd
}

func checkCmd(g *globalOpts) *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check text against the stored blacklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := g.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			svc := &services.ForumService{DB: db}
			err = svc.Check(cmd.Context(), title, body)
			var rej *contentguard.RejectedError
			switch {
			case err == nil:
				return g.emit(cmd.OutOrStdout(), map[string]any{"blocked": false}, func(w io.Writer) {
					fmt.Fprintln(w, "ok")
				})
			case errors.As(err, &rej):
				out := map[string]any{"blocked": true, "field": rej.Field, "matched_word": rej.MatchedWord}
				if err := g.emit(cmd.OutOrStdout(), out, func(w io.Writer) {
					fmt.Fprintf(w, "blocked: %s contains %q\n", rej.Field, rej.MatchedWord)
				}); err != nil {
					return err
				}
				return err
			default:
				return err
			}
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title to check")
	cmd.Flags().StringVar(&body, "body", "", "body to check")
	return cmd
}

// scoreFile is the input accepted by "score".
type scoreFile struct {
	PHQ9 assessment.Answers `json:"phq9"`
	GAD7 assessment.Answers `json:"gad7"`
	PSS  assessment.Answers `json:"pss"`
}

func scoreCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "score <answers.json|->",
		Short: "Score a session offline without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(args[0])
			if err != nil {
				return err
			}
			var in scoreFile
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			res, err := assessment.BuildResult(nil, in.PHQ9, in.GAD7, in.PSS)
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "PHQ-9\t%d\t%s\n", res.PHQ9Total, res.PHQ9Interpretation)
				fmt.Fprintf(w, "GAD-7\t%d\t%s\n", res.GAD7Total, res.GAD7Interpretation)
				fmt.Fprintf(w, "PSS\t%d\t%s\n", res.PSSTotal, res.PSSInterpretation)
			})
		},
	}
}

func tokenCmd(_ *globalOpts) *cobra.Command {
	var (
		uid, role string
		ttl       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			tok, err := middleware.SignToken([]byte(cfg.JWTSecret), uid, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user ID (required)")
	cmd.Flags().StringVar(&role, "role", middleware.RoleUser, "user|admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}

func purgeCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-idempotency",
		Short: "Delete expired idempotency keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := g.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			n, err := (&services.IdempotencyService{DB: db}).Purge(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d\n", n)
			return nil
		},
	}
}
