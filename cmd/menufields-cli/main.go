package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	menufields "github.com/goliatone/go-menufields"
	"github.com/goliatone/go-menufields/pkg/fields"
	"github.com/goliatone/go-menufields/pkg/hooks"
	"github.com/goliatone/go-menufields/pkg/metastore"
	"github.com/goliatone/go-menufields/pkg/platform"
	"github.com/goliatone/go-menufields/pkg/prompt"
	"github.com/goliatone/go-menufields/pkg/render/template/pongo"
	"github.com/goliatone/go-menufields/pkg/walker"
)

const usage = `usage: menufields-cli <command> [flags]

commands:
  inject   add the configured fields to a rendered menu item row
  save     simulate saving a menu item and print the stored values
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "inject":
		err = runInject(os.Args[2:], os.Stdout)
	case "save":
		err = runSave(os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("menufields-cli: %v", err)
	}
}

type commonFlags struct {
	fieldsPath   string
	templatesDir string
	itemID       int
	redisAddr  string
	verbose    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.fieldsPath, "fields", "", "field definition file or directory (JSON/YAML)")
	fs.StringVar(&c.templatesDir, "templates", "", "directory overriding the built-in field-<kind>.tpl templates")
	fs.IntVar(&c.itemID, "item", 1, "menu item id")
	fs.StringVar(&c.redisAddr, "redis", "", `redis address for metadata, "mem" for an in-process server (memory store if empty)`)
	fs.BoolVar(&c.verbose, "verbose", false, "enable debug logging")
}

type session struct {
	host    *menufields.Host
	defs    []fields.Definition
	cleanup func()
}

func (c *commonFlags) open(ctx context.Context) (*session, error) {
	logger := zap.NewNop()
	if c.verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		logger = dev
	}

	defs, err := loadDefinitions(c.fieldsPath)
	if err != nil {
		return nil, err
	}

	store, cleanup, err := openStore(ctx, c.redisAddr)
	if err != nil {
		return nil, err
	}

	host := &menufields.Host{
		Hooks:  hooks.NewRegistry(),
		Items:  platform.NewItemSet(platform.Item{ID: c.itemID, Type: platform.TypeMenuItem}),
		Store:  store,
		Logger: logger,
		Diagnostics: func(d walker.Diagnostic) {
			logger.Info("row left unchanged", zap.Int("item_id", d.ItemID), zap.String("reason", d.Reason))
		},
	}
	var opts []fields.Option
	if dir := strings.TrimSpace(c.templatesDir); dir != "" {
		engine, err := pongo.New(pongo.WithBaseDir(dir))
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("templates: %w", err)
		}
		opts = append(opts, fields.WithRenderer(engine))
	}
	if err := fields.Register(host.Hooks, defs, opts...); err != nil {
		cleanup()
		return nil, err
	}
	menufields.Bootstrap(host)

	return &session{
		host: host,
		defs: defs,
		cleanup: func() {
			cleanup()
			_ = logger.Sync()
		},
	}, nil
}

func runInject(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inject", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	rowPath := fs.String("row", "", "file holding the host row markup (stdin if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	baseline, err := readInput(*rowPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := common.open(ctx)
	if err != nil {
		return err
	}
	defer sess.cleanup()

	base := platform.RowRendererFunc(func(context.Context, platform.Item, int, platform.RowArgs) (string, error) {
		return baseline, nil
	})
	renderer, ok := sess.host.Hooks.ApplyFilters(ctx, menufields.FilterEditWalker, platform.RowRenderer(base)).(platform.RowRenderer)
	if !ok {
		return errors.New("edit walker filter returned no row renderer")
	}

	row, err := renderer.RenderRow(ctx, platform.Item{ID: common.itemID, Type: platform.TypeMenuItem}, 0, nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, row)
	return err
}

func runSave(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	interactive := fs.Bool("interactive", false, "prompt for every field value")
	var sets setFlags
	fs.Var(&sets, "set", "field value as name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := common.open(ctx)
	if err != nil {
		return err
	}
	defer sess.cleanup()

	current := func(name string) any {
		return menufields.FieldValue(ctx, sess.host, common.itemID, name)
	}

	var values platform.Values
	if *interactive {
		values, err = prompt.Submission(ctx, prompt.NewSurveyDriver(), sess.defs, common.itemID, current)
		if err != nil {
			return err
		}
	} else {
		values = sets.values(common.itemID)
	}

	saveCtx := platform.WithParams(ctx, platform.RequestParams{Post: values})
	sess.host.Hooks.DoAction(saveCtx, menufields.ActionItemSaved, 0, common.itemID)

	for _, def := range sess.defs {
		if _, err := fmt.Fprintf(out, "%s = %v\n", def.Name, current(def.Name)); err != nil {
			return err
		}
	}
	return nil
}

func loadDefinitions(path string) ([]fields.Definition, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("-fields is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return fields.LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fields.Parse(data, filepath.Base(path))
}

func openStore(ctx context.Context, addr string) (platform.MetaStore, func(), error) {
	switch strings.TrimSpace(addr) {
	case "":
		return metastore.NewMemory(), func() {}, nil
	case "mem":
		srv, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start in-process redis: %w", err)
		}
		store, err := metastore.NewRedis(ctx, metastore.RedisConfig{Address: srv.Addr()})
		if err != nil {
			srv.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close(); srv.Close() }, nil
	default:
		store, err := metastore.NewRedis(ctx, metastore.RedisConfig{Address: addr})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}

func readInput(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// setFlags collects repeated -set name=value flags.
type setFlags map[string]string

func (s *setFlags) String() string {
	if s == nil || len(*s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(*s))
	for key := range *s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+(*s)[key])
	}
	return strings.Join(parts, ",")
}

func (s *setFlags) Set(raw string) error {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", raw)
	}
	if *s == nil {
		*s = make(setFlags)
	}
	(*s)[name] = value
	return nil
}

func (s setFlags) values(itemID int) platform.Values {
	index := strconv.Itoa(itemID)
	out := make(platform.Values, len(s))
	for name, value := range s {
		out[menufields.KeyPrefix+name] = map[string]any{index: value}
	}
	return out
}
