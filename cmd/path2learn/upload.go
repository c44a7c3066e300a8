package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/logging"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/terminal"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/upload"
)

const uploadTimeout = 2 * time.Minute

func newUploadCommand(c *cli) *cobra.Command {
	var inputID string
	cmd := &cobra.Command{
		Use:   "upload --input <id> FILE",
		Short: "Select a file on a bound input: print its preview and upload it",
		Long: `Select a file on a bound input the way the upload page does: the preview
fragment is printed immediately and the file is posted to the binding's
endpoint. The response is not checked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.upload(inputID, args[0])
		},
	}
	cmd.Flags().StringVarP(&inputID, "input", "i", "syllabusFile", "input id of the binding to use")
	cmd.Flags().String("origin", "http://localhost:8080", "origin relative endpoints are resolved against")
	return cmd
}

func (c *cli) upload(inputID, path string) error {
	if _, ok := c.cfg.Binding(inputID); !ok {
		return fmt.Errorf("no binding for input %q", inputID)
	}

	logger := logging.WithComponent(c.logger, "upload")
	reg := prometheus.NewRegistry()
	observer, err := upload.NewPrometheusObserver("path2learn", reg)
	if err != nil {
		return err
	}

	doc := terminal.NewDocument(c.out, c.cfg.Bindings)
	dispatcher := &upload.TrackingDispatcher{}
	submitter := upload.NewHTTPSubmitter(c.cfg.Origin, &http.Client{Timeout: uploadTimeout})
	binder := upload.NewBinder(submitter,
		upload.WithDispatcher(dispatcher),
		upload.WithObserver(observer),
		upload.WithLogger(logger),
	)
	if _, err := binder.BindAll(doc, c.cfg.Bindings); err != nil {
		return err
	}

	if err := doc.Select(inputID, path); err != nil {
		return err
	}
	// Let the in-flight upload finish before the process exits.
	dispatcher.Wait()

	if summary, err := counterSummary(reg); err == nil {
		logger.Debug("upload activity: %s", summary)
	}
	return nil
}

// counterSummary renders every counter family in g as name=total, summed
// over labels.
func counterSummary(g prometheus.Gatherer) (string, error) {
	families, err := g.Gather()
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(families))
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		parts = append(parts, fmt.Sprintf("%s=%g", mf.GetName(), total))
	}
	return strings.Join(parts, " "), nil
}
