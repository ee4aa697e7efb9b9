package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"rentchat/domain"
	errs "rentchat/errors"
	"rentchat/internal"
	"rentchat/services"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
)

var errUsage = errors.New("invalid usage")

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"login":       {"login -email <email> -password <password>", login},
		"register":    {"register -first <name> -last <name> -email <email> -password <password> [-phone <e164>]", register},
		"logout":      {"logout", logout},
		"whoami":      {"whoami", whoami},
		"items":       {"items [-search <text> | -category <name> | -mine | -lat <lat> -lng <lng> -radius <km>]", listItems},
		"item":        {"item <id>", showItem},
		"item-create": {"item-create -title <title> -category <name> -price <per day> [-description <text>] [-images <url,url>]", createItem},
		"item-delete": {"item-delete <id>", deleteItem},
		"fav":         {"fav <item id>", toggleFavorite},
		"favs":        {"favs", listFavorites},
		"rooms":       {"rooms", listRooms},
		"chat":        {"chat <room id>", openChat},
		"contact":     {"contact <item id>", contactOwner},
		"theme":       {"theme [dark|light|toggle]", setTheme},
		"profile":     {"profile [-first <name>] [-last <name>] [-phone <e164>] [-image <url>]", profile},
		"inspect":     {"inspect [-prefix <key prefix>]", inspect},
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: rentchat <command> [arguments]")
	names := lo.Keys(commands)
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func parse(name string, args []string, define func(fs *flag.FlagSet)) (*flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if define != nil {
		define(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs, nil
}

func single(name string, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%w: %s", errUsage, commands[name].usage)
	}
	return args[0], nil
}

// session restores the persisted login, most commands need one.
func (a *app) session() (domain.User, error) {
	user, err := a.auth.Restore()
	if err != nil {
		if errors.Is(err, errs.ErrNotAuthenticated) || errors.Is(err, errs.ErrSessionExpired) {
			return domain.User{}, fmt.Errorf("%w: run 'rentchat login' first", err)
		}
		return domain.User{}, err
	}
	return user, nil
}

func login(ctx context.Context, a *app, args []string) error {
	var email, password string
	if _, err := parse("login", args, func(fs *flag.FlagSet) {
		fs.StringVar(&email, "email", "", "account email")
		fs.StringVar(&password, "password", "", "account password")
	}); err != nil {
		return err
	}
	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.notifier.Info(fmt.Sprintf("Welcome back %s", user.Summary().DisplayName()))
	if _, err := a.theme.SetDarkMode(ctx, user.IsDarkMode); err != nil {
		a.log.Warn("Theme preference not saved", "error", err)
	}
	return nil
}

func register(ctx context.Context, a *app, args []string) error {
	var r domain.Registration
	if _, err := parse("register", args, func(fs *flag.FlagSet) {
		fs.StringVar(&r.FirstName, "first", "", "first name")
		fs.StringVar(&r.LastName, "last", "", "last name")
		fs.StringVar(&r.Email, "email", "", "account email")
		fs.StringVar(&r.Password, "password", "", "password, mixing cases, digits and symbols")
		fs.StringVar(&r.Phone, "phone", "", "phone number, E.164")
	}); err != nil {
		return err
	}
	user, err := a.auth.Register(ctx, r)
	if err != nil {
		return err
	}
	a.notifier.Info(fmt.Sprintf("Account created for %s", user.Email))
	return nil
}

func logout(_ context.Context, a *app, _ []string) error {
	if err := a.auth.Logout(); err != nil {
		return err
	}
	a.notifier.Info("Logged out")
	return nil
}

func whoami(_ context.Context, a *app, _ []string) error {
	user, err := a.session()
	if err != nil {
		return err
	}
	renderUser(a.out, user)
	return nil
}

func listItems(ctx context.Context, a *app, args []string) error {
	var (
		search, category string
		mine             bool
		lat, lng, radius float64
	)
	fs, err := parse("items", args, func(fs *flag.FlagSet) {
		fs.StringVar(&search, "search", "", "full text search")
		fs.StringVar(&category, "category", "", "filter by category")
		fs.BoolVar(&mine, "mine", false, "only my listings")
		fs.Float64Var(&lat, "lat", 0, "latitude for a nearby search")
		fs.Float64Var(&lng, "lng", 0, "longitude for a nearby search")
		fs.Float64Var(&radius, "radius", 0, "radius in km for a nearby search")
	})
	if err != nil {
		return err
	}
	if _, err := a.session(); err != nil && mine {
		return err
	}

	var items []domain.Item
	switch {
	case search != "":
		items, err = a.items.Search(ctx, search)
	case category != "":
		items, err = a.items.ByCategory(ctx, category)
	case mine:
		items, err = a.items.Mine(ctx)
	case radius > 0:
		items, err = a.items.Nearby(ctx, domain.NearbyQuery{Latitude: lat, Longitude: lng, Radius: radius})
	default:
		items, err = a.items.List(ctx)
	}
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		a.log.Debug("Ignoring extra arguments", "args", fs.Args())
	}
	renderItems(a.out, items)
	return nil
}

func showItem(ctx context.Context, a *app, args []string) error {
	id, err := single("item", args)
	if err != nil {
		return err
	}
	_, _ = a.session()
	item, err := a.items.Get(ctx, domain.ItemID(id))
	if err != nil {
		return err
	}
	renderItem(a.out, item)
	return nil
}

func createItem(ctx context.Context, a *app, args []string) error {
	var (
		draft  domain.ItemDraft
		images string
	)
	if _, err := parse("item-create", args, func(fs *flag.FlagSet) {
		fs.StringVar(&draft.Title, "title", "", "listing title")
		fs.StringVar(&draft.Description, "description", "", "listing description")
		fs.StringVar(&draft.Category, "category", "", "category")
		fs.Float64Var(&draft.PricePerDay, "price", 0, "price per day")
		fs.StringVar(&images, "images", "", "comma separated image urls")
		fs.BoolVar(&draft.Available, "available", true, "available for rent")
	}); err != nil {
		return err
	}
	if images != "" {
		draft.Images = lo.Map(strings.Split(images, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		})
	}
	if _, err := a.session(); err != nil {
		return err
	}
	item, err := a.items.Create(ctx, draft)
	if err != nil {
		return err
	}
	a.notifier.Info(fmt.Sprintf("Item %s published", item.ID))
	return nil
}

func deleteItem(ctx context.Context, a *app, args []string) error {
	id, err := single("item-delete", args)
	if err != nil {
		return err
	}
	if _, err := a.session(); err != nil {
		return err
	}
	if err := a.items.Delete(ctx, domain.ItemID(id)); err != nil {
		return err
	}
	a.notifier.Info(fmt.Sprintf("Item %s deleted", id))
	return nil
}

func toggleFavorite(ctx context.Context, a *app, args []string) error {
	id, err := single("fav", args)
	if err != nil {
		return err
	}
	if _, err := a.session(); err != nil {
		return err
	}
	favorite, err := a.items.ToggleFavorite(ctx, domain.ItemID(id))
	if err != nil {
		return err
	}
	if favorite {
		a.notifier.Info("Added to favorites")
	} else {
		a.notifier.Info("Removed from favorites")
	}
	return nil
}

func listFavorites(ctx context.Context, a *app, _ []string) error {
	if _, err := a.session(); err != nil {
		return err
	}
	items, err := a.items.Favorites(ctx)
	if err != nil {
		return err
	}
	renderItems(a.out, items)
	return nil
}

func listRooms(ctx context.Context, a *app, _ []string) error {
	user, err := a.session()
	if err != nil {
		return err
	}
	rooms, err := a.chat.Rooms(ctx)
	if err != nil {
		return err
	}
	renderRooms(a.out, rooms, user.ID)
	return nil
}

func openChat(ctx context.Context, a *app, args []string) error {
	id, err := single("chat", args)
	if err != nil {
		return err
	}
	user, err := a.session()
	if err != nil {
		return err
	}
	session, err := a.chat.Open(ctx, domain.RoomID(id), nil)
	if err != nil {
		return err
	}
	defer session.Close()
	return converse(ctx, a, session, user.ID)
}

func contactOwner(ctx context.Context, a *app, args []string) error {
	id, err := single("contact", args)
	if err != nil {
		return err
	}
	user, err := a.session()
	if err != nil {
		return err
	}
	item, err := a.items.Get(ctx, domain.ItemID(id))
	if err != nil {
		return err
	}
	session, err := a.chat.ContactOwner(ctx, item)
	if err != nil {
		return err
	}
	defer session.Close()
	return converse(ctx, a, session, user.ID)
}

// converse prints the room as it changes and sends every line typed.
// Commands: /older, /search <words>, /attach <path>, /detach <index>, /quit.
func converse(ctx context.Context, a *app, session *services.ChatSession, me domain.UserID) error {
	var mu sync.Mutex
	printed := make(map[domain.MessageID]struct{})
	flush := func() {
		mu.Lock()
		defer mu.Unlock()
		theme := a.theme.Current()
		for _, m := range session.Timeline().Chronological() {
			if _, ok := printed[m.ID]; ok {
				continue
			}
			printed[m.ID] = struct{}{}
			fmt.Fprintln(a.out, formatMessage(m, me, theme))
		}
	}
	session.Timeline().OnChange(flush)
	flush()
	fmt.Fprintln(a.out, "Type a message, /older, /search <words>, /attach <path>, /detach <index> or /quit")

	done := make(chan struct{})
	defer close(done)
	lines := readLines(a.in, done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-session.Done():
			return fmt.Errorf("%w: chat connection closed", errs.ErrNetwork)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := handleLine(a, session, me, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

// readLines forwards the lines of in until in ends or done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

const searchLimit = 10

func handleLine(a *app, session *services.ChatSession, me domain.UserID, line string) bool {
	composer := session.Composer()
	switch {
	case line == "/quit":
		return true
	case line == "/older":
		pager := session.Paginator()
		switch {
		case pager.Loading():
			a.notifier.Info("Older messages are still loading")
		case !pager.HasMore():
			a.notifier.Info("No older messages")
		default:
			a.notifier.Info(fmt.Sprintf("Loading older messages (page %d)", pager.NextPage()))
			// Printed by the timeline callback once merged
			go session.LoadOlder()
		}
	case strings.HasPrefix(line, "/search "):
		found, err := session.Search(strings.TrimSpace(strings.TrimPrefix(line, "/search ")), searchLimit)
		if err != nil {
			a.notifier.Error("Search failed", err)
			return false
		}
		if len(found) == 0 {
			a.notifier.Info("No matching message")
			return false
		}
		theme := a.theme.Current()
		for _, m := range found {
			fmt.Fprintln(a.out, "  "+formatMessage(m, me, theme))
		}
	case strings.HasPrefix(line, "/attach "):
		media, err := composer.AddMediaFile(strings.TrimSpace(strings.TrimPrefix(line, "/attach ")))
		if err != nil {
			a.notifier.Error("Attachment refused", err)
			return false
		}
		a.notifier.Info(fmt.Sprintf("Attached %s (%s), %d pending", media.Name, media.Type, len(composer.Media())))
	case strings.HasPrefix(line, "/detach "):
		index, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/detach ")))
		if err == nil {
			err = composer.RemoveMedia(index)
		}
		if err != nil {
			a.notifier.Error("Detach failed", err)
		}
	default:
		composer.SetText(line)
		if _, err := session.Send(); err != nil {
			switch {
			case errors.Is(err, errs.ErrEmptyDraft):
			case errors.Is(err, errs.ErrSendInProgress), errors.Is(err, errs.ErrSessionClosed):
				a.notifier.Error("Message not sent", err)
			default:
				// already notified by the composer
				a.log.Debug("Send failed", "error", err)
			}
		}
	}
	return false
}

func setTheme(ctx context.Context, a *app, args []string) error {
	_, _ = a.session()
	var (
		theme domain.Theme
		err   error
	)
	mode := "show"
	if len(args) > 0 {
		mode = args[0]
	}
	switch mode {
	case "show":
		theme = a.theme.Current()
	case "dark":
		theme, err = a.theme.SetDarkMode(ctx, true)
	case "light":
		theme, err = a.theme.SetDarkMode(ctx, false)
	case "toggle":
		theme, err = a.theme.Toggle(ctx)
	default:
		return fmt.Errorf("%w: %s", errUsage, commands["theme"].usage)
	}
	if err != nil {
		return err
	}
	if theme.DarkMode {
		a.notifier.Info("Dark mode")
	} else {
		a.notifier.Info("Light mode")
	}
	return nil
}

func profile(ctx context.Context, a *app, args []string) error {
	var update domain.ProfileUpdate
	fs, err := parse("profile", args, func(fs *flag.FlagSet) {
		fs.StringVar(&update.FirstName, "first", "", "first name")
		fs.StringVar(&update.LastName, "last", "", "last name")
		fs.StringVar(&update.Phone, "phone", "", "phone number, E.164")
		fs.StringVar(&update.ProfileImage, "image", "", "profile image url")
	})
	if err != nil {
		return err
	}
	if _, err := a.session(); err != nil {
		return err
	}
	var user domain.User
	if fs.NFlag() == 0 {
		user, err = a.profile.Profile(ctx)
	} else {
		user, err = a.profile.UpdateProfile(ctx, update)
	}
	if err != nil {
		return err
	}
	renderUser(a.out, user)
	return nil
}

func inspect(_ context.Context, a *app, args []string) error {
	var prefix string
	if _, err := parse("inspect", args, func(fs *flag.FlagSet) {
		fs.StringVar(&prefix, "prefix", "", "only keys starting with this prefix")
	}); err != nil {
		return err
	}
	rows, err := internal.Inspect(a.db, prefix, nil)
	if err != nil {
		return err
	}
	table := newTable(a.out, "Key", "Size", "Detail")
	for _, row := range rows {
		table.Append([]string{row.Key, strconv.Itoa(row.Size), row.Detail})
	}
	table.Render()
	return nil
}
