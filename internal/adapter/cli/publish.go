package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"mrpost/internal/adapter/output/text"
	"mrpost/internal/extract"
	"mrpost/internal/usecase/publish"
)

const rawExcerptLimit = 500

func publishCommand(deps Dependencies) *cobra.Command {
	var (
		dryRun    bool
		repo      string
		inputPath string
	)

	cmd := &cobra.Command{
		Use:   "publish <mr-iid>",
		Short: "Extract a review from stdin and post it to a merge request",
		Long: "Reads raw model output from stdin (or --input), extracts the review JSON object,\n" +
			"and posts inline discussions plus a summary note to the merge request.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mrIID, err := strconv.Atoi(args[0])
			if err != nil || mrIID < 1 {
				return fmt.Errorf("merge request IID must be a positive integer, got %q", args[0])
			}

			raw, err := readInput(cmd, inputPath)
			if err != nil {
				return err
			}

			review, warnings, err := extract.ParseReview(raw)
			if err != nil {
				if errors.Is(err, extract.ErrNoReview) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Raw input:\n%s\n", truncate(raw, rawExcerptLimit))
				}
				return err
			}
			for _, warning := range warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}

			if dryRun {
				return text.NewRenderer(cmd.OutOrStdout()).Render(review)
			}

			resolvedRepo := repo
			if resolvedRepo == "" {
				resolvedRepo = deps.DefaultRepo
			}

			publisher := deps.NewPublisher(resolvedRepo)
			_, err = publisher.Publish(cmd.Context(), publish.Request{
				MRIID:   mrIID,
				Project: resolvedRepo,
				Review:  review,
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the review locally without posting")
	cmd.Flags().StringVar(&repo, "repo", "", "GitLab project path (group/project), overrides detection")
	cmd.Flags().StringVar(&inputPath, "input", "", "Read model output from a file instead of stdin")

	return cmd
}

func readInput(cmd *cobra.Command, inputPath string) (string, error) {
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}

	if f, ok := cmd.InOrStdin().(*os.File); ok && IsTTY(f.Fd()) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Reading model output from stdin (end with Ctrl-D)...")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
