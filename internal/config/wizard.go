package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to publist! Let's configure your publication page.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Source document.
	sourcePrompt := promptui.Prompt{
		Label:   "Publication source (file path or URL)",
		Default: cfg.Source,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("source is required")
			}
			return nil
		},
	}
	source, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	cfg.Source = strings.TrimSpace(source)

	// 2. Name to highlight in author lists.
	highlightPrompt := promptui.Prompt{
		Label:   "Name to highlight in author lists",
		Default: cfg.HighlightName,
	}
	if cfg.HighlightName, err = highlightPrompt.Run(); err != nil {
		return nil, fmt.Errorf("highlight name: %w", err)
	}

	// 3. Page title.
	titlePrompt := promptui.Prompt{
		Label:   "Page title",
		Default: cfg.SiteTitle,
	}
	if cfg.SiteTitle, err = titlePrompt.Run(); err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}

	// 4. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the built site",
		Default: cfg.OutputDir,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 5. Asset globs.
	assetsPrompt := promptui.Prompt{
		Label:   "Asset patterns to copy (comma-separated globs)",
		Default: strings.Join(cfg.Assets, ","),
	}
	assetsStr, err := assetsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("asset patterns: %w", err)
	}
	cfg.Assets = splitAndTrim(assetsStr)

	// 6. Image preview modal.
	previewPrompt := promptui.Select{
		Label: "Enable the image preview modal",
		Items: []string{"no", "yes"},
	}
	previewIdx, _, err := previewPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("image preview: %w", err)
	}
	cfg.ImagePreview = previewIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
