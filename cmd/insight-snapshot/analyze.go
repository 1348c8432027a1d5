package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/insight-snapshot/insight"
	"github.com/theimaginaryfoundation/insight-snapshot/insight/fileutils"
)

type outputOptions struct {
	JSON      bool
	Pretty    bool
	Plain     bool
	Out       string
	Overwrite bool
}

func bindOutputFlags(cmd *cobra.Command, o *outputOptions) {
	fs := cmd.Flags()
	fs.BoolVar(&o.JSON, "json", false, "Print the snapshot as JSON instead of rendered markdown")
	fs.BoolVar(&o.Pretty, "pretty", false, "Indent JSON output")
	fs.BoolVar(&o.Plain, "plain", false, "Print markdown without terminal styling")
	fs.StringVar(&o.Out, "out", "", "Also write the snapshot JSON to this file")
	fs.BoolVar(&o.Overwrite, "overwrite", false, "Overwrite an existing --out file")
}

func (o outputOptions) validate() error {
	if o.Out == "" || o.Overwrite {
		return nil
	}
	if fileutils.FileExists(o.Out) {
		return usagef("output file already exists: %s (pass --overwrite)", o.Out)
	}
	return nil
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var inPath string
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "analyze [reflection...]",
		Short: "Analyze one reflection and print its insight snapshot",
		Example: `  insight-snapshot analyze "A peer challenged my timeline in front of the VP and I shut down."
  insight-snapshot analyze --in notes.txt --json --pretty --out snapshot.json
  pbpaste | insight-snapshot analyze --in -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readReflection(cmd.InOrStdin(), inPath, args)
			if err != nil {
				return err
			}
			if !insight.ValidReflection(text) {
				return usagef("reflection must be at least %d characters (got %d)",
					insight.MinReflectionLength, utf8.RuneCountInString(strings.TrimSpace(text)))
			}
			if err := out.validate(); err != nil {
				return err
			}

			adapter := a.adapter()
			session := insight.NewSession(adapter, insight.WithLogger(a.logger.Named("session")))

			start := time.Now()
			session.Submit(cmd.Context(), text)
			snap := session.Await(cmd.Context())

			switch snap.State {
			case insight.StateError:
				return errors.New(snap.Err)
			case insight.StateLoading:
				return fmt.Errorf("analysis interrupted: %w", cmd.Context().Err())
			case insight.StateSuccess:
			default:
				return fmt.Errorf("unexpected session state %s", snap.State)
			}

			a.logger.Info("snapshot generated",
				zap.String("model", adapter.Model()),
				zap.Int("themes", len(snap.Result.Themes)),
				zap.Bool("risk", snap.Result.HasRisk()),
				zap.Duration("elapsed", time.Since(start)))
			fmt.Fprintf(cmd.ErrOrStderr(), "analyzed reflection_chars=%d model=%s elapsed=%s\n",
				utf8.RuneCountInString(strings.TrimSpace(text)), adapter.Model(), time.Since(start).Round(time.Millisecond))

			return writeSnapshot(cmd.OutOrStdout(), *snap.Result, out, a.cfg.WordWrap)
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "Read the reflection from a file ('-' for stdin)")
	bindOutputFlags(cmd, &out)
	return cmd
}

// readReflection takes the reflection from --in (a path or "-") or else from the joined arguments.
func readReflection(stdin io.Reader, inPath string, args []string) (string, error) {
	if inPath != "" && len(args) > 0 {
		return "", usagef("pass the reflection as arguments or with --in, not both")
	}
	switch {
	case inPath == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	case inPath != "":
		b, err := os.ReadFile(filepath.Clean(inPath))
		if err != nil {
			return "", usagef("read --in: %v", err)
		}
		return string(b), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		return "", usagef("missing reflection (pass it as arguments or with --in)")
	}
}

func writeSnapshot(w io.Writer, r insight.Result, o outputOptions, wordWrap int) error {
	if o.Out != "" {
		if err := fileutils.WriteJSONFileAtomic(o.Out, r, o.Pretty); err != nil {
			return fmt.Errorf("write --out: %w", err)
		}
	}

	if o.JSON {
		b, err := insight.MarshalSnapshot(r, o.Pretty)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	md := insight.Markdown(r)
	if o.Plain {
		_, err := io.WriteString(w, md)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		_, err = io.WriteString(w, md)
		return err
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		_, err = io.WriteString(w, md)
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}
