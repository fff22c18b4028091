package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"threejs-mcp/internal/sketchfab"
)

var downloadOutput string

// downloadCmd fetches a model's GLTF archive to the local filesystem. It
// resolves the download URL the same way the MCP tool does, then pulls the
// payload and unpacks it when it turns out to be a ZIP archive.
var downloadCmd = &cobra.Command{
	Use:   "download <model-id>",
	Short: "Download a model's GLTF archive",
	Long: `Resolves the GLTF download URL for the given model and downloads it.
ZIP payloads are unpacked into a sibling directory next to the archive.

Requires an OAuth2 access token, configured via flags, environment
variables or the credentials file.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	initLogging()

	catalog, cred, err := newCatalogClient()
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}
	if !cred.HasAccessToken() {
		return errors.New("downloading requires an access token; set --sketchfab_access_token or SKETCHFAB_ACCESS_TOKEN")
	}

	modelID := args[0]

	resolution, err := catalog.ResolveGltfURL(cmd.Context(), modelID)
	if err != nil {
		return err
	}
	switch resolution.Status {
	case sketchfab.GltfNotDownloadable:
		return fmt.Errorf("model %q is not downloadable", resolution.ModelName)
	case sketchfab.GltfFormatUnavailable:
		return fmt.Errorf("no GLTF format available for model %q (available: %s)",
			resolution.ModelName, strings.Join(resolution.AvailableFormats, ", "))
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Downloading %s...", resolution.ModelName)
	s.Start()
	result, err := catalog.Download(cmd.Context(), resolution.URL, downloadOutput)
	s.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("Downloaded %s to %s\n", resolution.ModelName, result.LocalPath)
	if result.IsArchive {
		fmt.Printf("Extracted %d entries to %s\n", len(result.ExtractedEntries), result.ExtractedDir)
	}
	return nil
}

func init() {
	downloadCmd.Flags().StringVar(&downloadOutput, "output", "", "Destination file path (default: a temporary file)")
	rootCmd.AddCommand(downloadCmd)
}
