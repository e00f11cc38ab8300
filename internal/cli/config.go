package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hextile/pkg/layout"
	"github.com/matzehuels/hextile/pkg/pipeline"
	"github.com/matzehuels/hextile/pkg/render"
)

// presetFile is the name of the default preset under the config directory.
const presetFile = "preset.toml"

// =============================================================================
// Preset - TOML Configuration
// =============================================================================

// Preset is the TOML form of a generate configuration. Flags that are set
// explicitly take precedence over values loaded from a preset.
type Preset struct {
	Layout layout.Params `toml:"layout"`
	Render RenderPreset  `toml:"render"`
	Output OutputPreset  `toml:"output"`
}

// RenderPreset holds drawing options.
type RenderPreset struct {
	Style  string  `toml:"style"`
	Border bool    `toml:"border"`
	Scale  float64 `toml:"scale"`
}

// OutputPreset holds what to write and where.
type OutputPreset struct {
	Formats []string `toml:"formats"`
	Layouts int      `toml:"layouts"`
	Dir     string   `toml:"dir"`
}

// defaultPreset mirrors the pipeline defaults.
func defaultPreset() Preset {
	return Preset{
		Layout: layout.DefaultParams(),
		Render: RenderPreset{
			Style: pipeline.DefaultStyle,
			Scale: render.DefaultScale,
		},
		Output: OutputPreset{
			Formats: []string{pipeline.FormatPNG},
			Layouts: pipeline.DefaultVariations,
			Dir:     ".",
		},
	}
}

// defaultPresetPath returns the preset path under the XDG config directory.
func defaultPresetPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, presetFile), nil
}

// loadPreset overlays the preset at path onto the defaults. An empty path
// loads the default preset if one exists. seedSet reports whether the file
// fixed the seed.
func loadPreset(path string) (p Preset, seedSet bool, err error) {
	p = defaultPreset()
	if path == "" {
		def, err := defaultPresetPath()
		if err != nil {
			return p, false, nil
		}
		if _, err := os.Stat(def); err != nil {
			return p, false, nil
		}
		path = def
	}

	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return p, false, fmt.Errorf("load preset %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return p, false, fmt.Errorf("load preset %s: unknown key %s", path, undecoded[0])
	}
	return p, md.IsDefined("layout", "seed"), nil
}

// encodePreset writes p as TOML with a short header.
func encodePreset(p Preset) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# hextile preset\n")
	buf.WriteString("# Load with: hextile generate --config <file>\n")
	buf.WriteString("# Flags given on the command line override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return nil, fmt.Errorf("encode preset: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Commands
// =============================================================================

// configCommand creates the preset management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage generate presets",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a preset with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := defaultPresetPath()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			data, err := encodePreset(defaultPreset())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote preset")
			printFile(path, len(data))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing preset")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := loadPreset(path)
			if err != nil {
				return err
			}
			data, err := encodePreset(p)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "preset file (default: XDG config dir)")
	return cmd
}
