package outputters

import (
	"fmt"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// MarkdownTableConsoleOutputter prints MarkdownTable values to the console.
type MarkdownTableConsoleOutputter struct {
	*chain.BaseOutputter
}

func NewMarkdownTableConsoleOutputter(configs ...cfg.Config) chain.Outputter {
	o := &MarkdownTableConsoleOutputter{}
	o.BaseOutputter = chain.NewBaseOutputter(o, configs...)
	return o
}

func (o *MarkdownTableConsoleOutputter) Output(val any) error {
	if table, ok := val.(types.MarkdownTable); ok {
		fmt.Print(table.ToString())
	}
	return nil
}

func (o *MarkdownTableConsoleOutputter) Params() []cfg.Param {
	return []cfg.Param{}
}
