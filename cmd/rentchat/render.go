package main

import (
	"fmt"
	"io"
	"rentchat/domain"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func renderItems(out io.Writer, items []domain.Item) {
	table := newTable(out, "ID", "Title", "Category", "Price/day", "Available", "Owner", "Fav")
	for _, item := range items {
		table.Append([]string{
			string(item.ID),
			item.Title,
			item.Category,
			strconv.FormatFloat(item.PricePerDay, 'f', 2, 64),
			yesNo(item.Available),
			item.Owner.DisplayName(),
			star(item.IsFavorite),
		})
	}
	table.Render()
}

func renderItem(out io.Writer, item domain.Item) {
	table := newTable(out, "Field", "Value")
	table.Append([]string{"ID", string(item.ID)})
	table.Append([]string{"Title", item.Title})
	table.Append([]string{"Description", item.Description})
	table.Append([]string{"Category", item.Category})
	table.Append([]string{"Price/day", strconv.FormatFloat(item.PricePerDay, 'f', 2, 64)})
	table.Append([]string{"Available", yesNo(item.Available)})
	table.Append([]string{"Owner", item.Owner.DisplayName()})
	if item.Location != nil {
		table.Append([]string{"Location", item.Location.Address})
	}
	table.Append([]string{"Images", strings.Join(item.Images, ", ")})
	table.Append([]string{"Favorite", star(item.IsFavorite)})
	table.Render()
}

func renderRooms(out io.Writer, rooms []domain.Room, me domain.UserID) {
	table := newTable(out, "Room", "With", "Last message", "Updated")
	for _, room := range rooms {
		with := "-"
		if p, ok := room.Counterpart(me); ok {
			with = p.User.DisplayName()
		}
		last := ""
		if m, ok := room.LastMessage(); ok {
			last = truncate(m.Content, 40)
		}
		table.Append([]string{string(room.ID), with, last, room.UpdatedAt.Format("2006-01-02 15:04")})
	}
	table.Render()
}

func renderUser(out io.Writer, user domain.User) {
	table := newTable(out, "Field", "Value")
	table.Append([]string{"ID", string(user.ID)})
	table.Append([]string{"Name", user.Summary().DisplayName()})
	table.Append([]string{"Email", user.Email})
	table.Append([]string{"Phone", user.Phone})
	table.Append([]string{"Dark mode", yesNo(user.IsDarkMode)})
	table.Render()
}

// formatMessage renders one chat line, own messages in the primary color.
func formatMessage(m domain.Message, me domain.UserID, theme domain.Theme) string {
	author := string(m.SenderID)
	if m.Sender != nil {
		author = m.Sender.DisplayName()
	}
	line := fmt.Sprintf("[%s] %s: %s", m.CreatedAt.Local().Format("15:04"), author, m.Content)
	for _, media := range m.Media {
		line += fmt.Sprintf(" [%s %s]", media.Type, media.Name)
	}
	if m.Metadata != nil && m.Metadata.Type == domain.MetadataTypeItem {
		line += fmt.Sprintf(" (about %q)", m.Metadata.Title)
	}
	if m.SenderID == me {
		return color.HEX(theme.Palette.Primary).Sprint(line)
	}
	return color.HEX(theme.Palette.Text).Sprint(line)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func star(b bool) string {
	if b {
		return "★"
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
