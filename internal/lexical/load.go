package lexical

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableFile is the YAML schema of an operator-maintained pattern table.
type TableFile struct {
	DefaultLanguage string                   `yaml:"default_language"`
	Languages       map[string][]PatternSpec `yaml:"languages"`
	FalsePositives  []string                 `yaml:"false_positives"`
}

// LoadTable reads a pattern table from a YAML file. An empty path returns
// the builtin table. Languages present in the file replace the builtin
// set for that language; absent languages keep the builtin patterns.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return NewTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern table: %w", err)
	}

	var file TableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode pattern table: %w", err)
	}

	specs := builtinPatterns()
	for lang, entries := range file.Languages {
		specs[lang] = entries
	}

	fps := builtinFalsePositives()
	if len(file.FalsePositives) > 0 {
		fps = file.FalsePositives
	}

	defaultLang := file.DefaultLanguage
	if defaultLang == "" {
		defaultLang = "en"
	}

	table, err := buildTable(specs, fps, defaultLang)
	if err != nil {
		return nil, fmt.Errorf("compile pattern table: %w", err)
	}
	return table, nil
}
