package outputters

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/pkg/utils"
)

// NamedOutputData pairs a value with the file it should be written to,
// letting links pick output filenames at runtime.
type NamedOutputData struct {
	OutputFilename string
	Data           any
}

func NewNamedOutputData(data any, filename string) NamedOutputData {
	return NamedOutputData{OutputFilename: filename, Data: data}
}

const defaultOutfile = "out.json"

// RuntimeJSONOutputter collects values and writes them as one JSON array,
// to a file chosen at init time or overridden at runtime. An optional jq
// filter narrows each entry before writing.
type RuntimeJSONOutputter struct {
	*chain.BaseOutputter
	indent  int
	output  []any
	outfile string
	jqQuery string
}

func NewRuntimeJSONOutputter(configs ...cfg.Config) chain.Outputter {
	j := &RuntimeJSONOutputter{}
	j.BaseOutputter = chain.NewBaseOutputter(j, configs...)
	return j
}

func (j *RuntimeJSONOutputter) Initialize() error {
	outfile, err := cfg.As[string](j.Arg("jsonoutfile"))
	if err != nil {
		outfile = defaultOutfile
	}
	j.outfile = outfile

	indent, err := cfg.As[int](j.Arg("indent"))
	if err != nil {
		indent = 0
	}
	j.indent = indent

	j.jqQuery, _ = cfg.As[string](j.Arg("jq"))

	slog.Debug("initialized runtime JSON outputter", "default_file", j.outfile, "indent", j.indent)
	return nil
}

func (j *RuntimeJSONOutputter) Output(val any) error {
	if outputData, ok := val.(NamedOutputData); ok {
		if outputData.OutputFilename != "" && j.outfile == defaultOutfile {
			j.SetOutputFile(outputData.OutputFilename)
		}
		j.output = append(j.output, outputData.Data)
	} else {
		j.output = append(j.output, val)
	}
	return nil
}

// SetOutputFile changes the output file at runtime.
func (j *RuntimeJSONOutputter) SetOutputFile(filename string) {
	j.outfile = filename
	slog.Debug("changed JSON output file", "filename", filename)
}

func (j *RuntimeJSONOutputter) Complete() error {
	slog.Debug("writing JSON output", "filename", j.outfile, "entries", len(j.output))

	output := j.output
	if j.jqQuery != "" {
		filtered := make([]any, 0, len(output))
		for _, entry := range output {
			// Round-trip so the jq filter sees plain JSON values.
			raw, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("error encoding entry for jq filter: %w", err)
			}
			narrowed, err := utils.PerformJqQuery(raw, j.jqQuery)
			if err != nil {
				return err
			}
			var value any
			if err := json.Unmarshal(narrowed, &value); err != nil {
				return err
			}
			filtered = append(filtered, value)
		}
		output = filtered
	}

	if err := utils.EnsureFileDirectory(j.outfile); err != nil {
		return err
	}

	writer, err := os.Create(j.outfile)
	if err != nil {
		return fmt.Errorf("error creating JSON file %s: %w", j.outfile, err)
	}
	defer writer.Close()

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", strings.Repeat(" ", j.indent))

	return encoder.Encode(output)
}

func (j *RuntimeJSONOutputter) Params() []cfg.Param {
	return []cfg.Param{
		cfg.NewParam[string]("jsonoutfile", "the default file to write the JSON to (can be changed at runtime)").WithDefault(defaultOutfile),
		cfg.NewParam[int]("indent", "the number of spaces to use for the JSON indentation").WithDefault(0),
		cfg.NewParam[string]("jq", "optional jq filter applied to each entry before writing").WithDefault(""),
	}
}
