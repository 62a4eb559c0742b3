package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meysamhadeli/codepack/constants/lipgloss"
	"github.com/meysamhadeli/codepack/packer"
	"github.com/meysamhadeli/codepack/packer/models"
	"github.com/meysamhadeli/codepack/utils"
)

var packOutputDir string

var packCmd = &cobra.Command{
	Use:   "pack <archive.zip|directory> ...",
	Short: "Pack one or more archives or directories into packed project documents.",
	Long: `The 'pack' subcommand ingests each given zip archive or directory, applies
path-safety and resource validation, and writes a packed project document
(<name>.packed.txt) containing the directory tree and every collected file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		return handlePackCommand(rootDependencies, args)
	},
}

func init() {
	packCmd.Flags().StringVarP(&packOutputDir, "output", "o", ".", "directory for packed documents")
	rootCmd.AddCommand(packCmd)
}

func handlePackCommand(rootDependencies *RootDependencies, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithRemoveWhenDone(true)
	spinnerPack, _ := spinner.Start("Packing...")

	results := make([]*models.PackedProject, len(args))

	// Each input is an independent invocation with its own temp root, so they
	// can safely run concurrently.
	group, groupCtx := errgroup.WithContext(ctx)
	for i, arg := range args {
		i, arg := i, arg
		group.Go(func() error {
			project, err := packOne(groupCtx, rootDependencies, arg)
			if err != nil {
				return fmt.Errorf("packing %s: %w", arg, err)
			}
			results[i] = project
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		spinnerPack.Stop()
		return err
	}
	spinnerPack.Stop()

	for i, project := range results {
		outPath, err := writePackedProject(project, args[i])
		if err != nil {
			return err
		}
		rootDependencies.Estimator.DisplayTokens(project.Source, project.TokenCount)
		summarizeProject(project, outPath)
	}
	return nil
}

// packOne routes a single input through the matching packing entry point.
func packOne(ctx context.Context, rootDependencies *RootDependencies, arg string) (*models.PackedProject, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		uploads, err := stageDirectory(arg)
		if err != nil {
			return nil, err
		}
		return rootDependencies.Packer.PackFromFiles(ctx, uploads)
	}
	buffer, err := os.ReadFile(arg)
	if err != nil {
		return nil, err
	}
	return rootDependencies.Packer.PackFromArchive(ctx, buffer, filepath.Base(arg))
}

// stageDirectory reads a local directory into an upload set. Obvious junk is
// filtered here so it is never read into memory; the packer re-applies the
// full exclusion rules afterwards.
func stageDirectory(dir string) ([]models.UploadedFile, error) {
	exclusions := packer.DefaultExclusions()
	var uploads []models.UploadedFile

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		relPath := filepath.ToSlash(rel)
		if relPath == "." {
			return nil
		}
		if exclusions.IsExcluded(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		uploads = append(uploads, models.UploadedFile{
			Filename:    relPath,
			Content:     content,
			ContentType: "text/plain",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

// writePackedProject writes the composite document next to the configured
// output directory and returns its path.
func writePackedProject(project *models.PackedProject, arg string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	if name == "" || name == "." {
		name = "project"
	}
	outPath := filepath.Join(packOutputDir, name+".packed.txt")
	if err := os.WriteFile(outPath, []byte(project.PackedContent), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}

// summarizeProject prints a per-language file summary for one packed project.
func summarizeProject(project *models.PackedProject, outPath string) {
	byLanguage := make(map[string]int)
	for _, file := range project.Files {
		byLanguage[file.Language]++
	}

	tableData := pterm.TableData{{"Language", "Files"}}
	for _, language := range utils.SortedKeys(byLanguage) {
		tableData = append(tableData, []string{language, fmt.Sprint(byLanguage[language])})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()

	status := fmt.Sprintf("Packed %d files into %s (checksum %s)", len(project.Files), outPath, project.Checksum)
	if project.ExceedsTokenLimit {
		fmt.Println(lipgloss.Yellow.Render(status))
		return
	}
	fmt.Println(lipgloss.Green.Render(status))
}
