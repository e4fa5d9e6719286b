package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// plan prints the selected catalog without touching the binary or the
// dataset. It shares flag handling with sweep so what it shows is
// exactly what sweep would run.
func (a *App) plan(ctx *cli.Context) error {
	cases, err := a.selectCases(ctx)
	if err != nil {
		return err
	}

	name := color.New(color.FgHiCyan, color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(os.Stdout, "%d test case(s):\n\n", len(cases))
	for i, tc := range cases {
		params := tc.ParamString()
		if params == "" {
			params = "(defaults)"
		}
		fmt.Fprintf(os.Stdout, "%2d. %s\n", i+1, name(tc.Name))
		if tc.Description != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", tc.Description)
		}
		fmt.Fprintf(os.Stdout, "    %s\n", dim(params))
	}
	return nil
}
