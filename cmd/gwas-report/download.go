package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

// GWAS catalog download endpoint (full catalog with ontology annotations).
const (
	catalogURL      = "https://www.ebi.ac.uk/gwas/api/search/downloadable/alternative"
	catalogFileName = "gwas_catalog_associations.tsv"
)

func newDownloadCmd() *cobra.Command {
	var outputDir string
	var force bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the GWAS catalog association file",
		Long: `Download fetches the full GWAS catalog association table from the EBI
and stores it for use as the default --gwas input of annotate.`,
		Example: `  gwas-report download
  gwas-report download --output /data/catalogs --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(outputDir, force)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (default: ~/.gwas-report/)")
	cmd.Flags().BoolVar(&force, "force", false, "Re-download even if the catalog already exists")

	return cmd
}

func runDownload(outputDir string, force bool) error {
	if outputDir == "" {
		outputDir = configDir()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", outputDir, err)
	}

	dest := filepath.Join(outputDir, catalogFileName)
	if force {
		os.Remove(dest)
	}

	fmt.Printf("Downloading GWAS catalog associations...\n")
	fmt.Printf("Destination: %s\n\n", dest)

	if err := downloadFile(catalogURL, dest); err != nil {
		return fmt.Errorf("downloading catalog: %w", err)
	}

	fmt.Printf("\nDownload complete!\n")
	fmt.Printf("To annotate variants, run:\n")
	fmt.Printf("  gwas-report annotate --vcf input.vcf --out results/\n")

	return nil
}

// downloadFile downloads a file from URL to the destination path with progress.
func downloadFile(url, destPath string) error {
	// Check if file already exists
	if info, err := os.Stat(destPath); err == nil {
		fmt.Printf("  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Printf("  Downloading %s...\n", filepath.Base(destPath))

	// Create HTTP client with timeout
	client := &http.Client{
		Timeout: 30 * time.Minute, // Long timeout for large files
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	// Create destination file
	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	// Copy with progress
	var downloaded int64
	contentLength := resp.ContentLength

	pw := &progressWriter{
		total:      contentLength,
		downloaded: &downloaded,
		lastPrint:  time.Now(),
	}

	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	// Rename temp file to final destination
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Printf("    Done: %s\n", formatSize(downloaded))
	return nil
}

// progressWriter tracks download progress.
type progressWriter struct {
	total      int64
	downloaded *int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	*pw.downloaded += int64(n)

	// Print progress every second
	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(*pw.downloaded) / float64(pw.total) * 100
			fmt.Printf("\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(*pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Printf("\r    Progress: %s  ", formatSize(*pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// DefaultCatalogPath returns the downloaded catalog path, or "" when no
// catalog has been downloaded yet.
func DefaultCatalogPath() string {
	path := filepath.Join(configDir(), catalogFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
