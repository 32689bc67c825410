package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"bookalchemy/internal/cover"
	"bookalchemy/internal/isbn"
	"bookalchemy/internal/platform/crypto"
	"bookalchemy/internal/platform/openlibrary"

	"github.com/spf13/cobra"
)

var errInvalidISBN = errors.New("one or more identifiers failed the checksum")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Operator tool for the bookalchemy catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newISBNCmd(), newCoverCmd(), newTokenCmd())
	return root
}

func newISBNCmd() *cobra.Command {
	isbnCmd := &cobra.Command{
		Use:   "isbn",
		Short: "ISBN utilities",
	}

	checkCmd := &cobra.Command{
		Use:   "check <isbn>...",
		Short: "Validate ISBN-10/ISBN-13 checksums and print the normalized form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, arg := range args {
				id := isbn.Normalize(arg)
				kind := "invalid"
				switch {
				case isbn.IsValid10(id):
					kind = "valid ISBN-10"
				case isbn.IsValid13(id):
					kind = "valid ISBN-13"
				default:
					failed = true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, kind)
			}
			if failed {
				return errInvalidISBN
			}
			return nil
		},
	}

	isbnCmd.AddCommand(checkCmd)
	return isbnCmd
}

func newCoverCmd() *cobra.Command {
	var (
		confirm     bool
		baseURL     string
		coversURL   string
		placeholder string
		timeout     time.Duration
	)

	coverCmd := &cobra.Command{
		Use:   "cover",
		Short: "Cover resolution",
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <isbn>...",
		Short: "Resolve cover annotations against Open Library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := openlibrary.NewClient(openlibrary.Config{
				BaseURL:   baseURL,
				CoversURL: coversURL,
				UserAgent: "bookctl/1.0",
			})
			resolver := cover.NewResolver(client, cover.NewCache(), cover.Options{
				PlaceholderURL: placeholder,
				CatalogTimeout: timeout,
				CoverTimeout:   timeout,
			})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ids := make([]string, len(args))
			for i, arg := range args {
				ids[i] = isbn.Normalize(arg)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for i, res := range resolver.ResolveAll(ctx, ids, confirm) {
				out := struct {
					ISBN string `json:"isbn"`
					cover.Result
				}{ids[i], res}
				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			return nil
		},
	}

	resolveCmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm locally valid identifiers against Open Library")
	resolveCmd.Flags().StringVar(&baseURL, "base-url", envOr("OPENLIBRARY_BASE_URL", openlibrary.DefaultBaseURL), "Open Library base URL")
	resolveCmd.Flags().StringVar(&coversURL, "covers-url", envOr("OPENLIBRARY_COVERS_URL", openlibrary.DefaultCoversURL), "Open Library covers URL")
	resolveCmd.Flags().StringVar(&placeholder, "placeholder", envOr("COVER_PLACEHOLDER_URL", "/static/no_cover.jpeg"), "Image used when no cover is found")
	resolveCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Per-call timeout")

	coverCmd.AddCommand(resolveCmd)
	return coverCmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		role    string
		ttl     time.Duration
	)

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "API token utilities",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, jti, err := crypto.GenerateToken(secret, subject, role, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "jti=%s sub=%s role=%s expires_in=%s\n", jti, subject, role, ttl)
			return nil
		},
	}

	issueCmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	issueCmd.Flags().StringVar(&subject, "sub", "", "Token subject")
	issueCmd.Flags().StringVar(&role, "role", crypto.RoleAdmin, "Token role")
	issueCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = issueCmd.MarkFlagRequired("sub")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
