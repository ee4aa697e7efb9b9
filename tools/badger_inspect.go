package main

import (
	"flag"
	"fmt"
	"os"
	"rentchat/internal"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Dumps the local client store, token masked, even while a chat is open.
//
//	go run ./tools -db .rentchat -prefix user
func main() {
	dbPath := flag.String("db", ".rentchat", "client store directory")
	prefix := flag.String("prefix", "", "only keys starting with this prefix")
	keysOnly := flag.Bool("keys", false, "list keys and sizes without values")
	flag.Parse()

	db, err := internal.OpenReadOnly(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprint(err))
		os.Exit(1)
	}
	defer db.Close()

	rows, err := internal.Inspect(db, *prefix, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprint(err))
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println(color.Yellow.Sprintf("No key under %q in %s", *prefix, *dbPath))
		return
	}

	header := []string{"Key", "Size", "Detail"}
	if *keysOnly {
		header = header[:2]
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	for _, row := range rows {
		line := []string{color.Cyan.Sprint(row.Key), strconv.Itoa(row.Size), row.Detail}
		table.Append(line[:len(header)])
	}
	table.Render()

	total := lo.SumBy(rows, func(r internal.InspectRow) int { return r.Size })
	fmt.Printf("\n%d keys, %d bytes\n", len(rows), total)
}
