package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"questionbank"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration of the console
type fileConfig struct {
	BaseURL  string `yaml:"base_url"`
	PageSize int    `yaml:"page_size"`
	Verbose  bool   `yaml:"verbose"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	var (
		configFile = flag.String("config", "", "YAML config file (base_url, page_size, verbose)")
		baseURL    = flag.String("base-url", "", "Question bank API base URL (default "+questionbank.DefaultBaseURL+")")
		pageSize   = flag.Int("page-size", 0, "Rows per page")
		verbose    = flag.Bool("verbose", false, "Enable verbose debugging output")
	)
	flag.Parse()

	cfg, err := loadFileConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *pageSize > 0 {
		cfg.PageSize = *pageSize
	}
	if *verbose {
		cfg.Verbose = true
	}

	questionbank.SetVerbose(cfg.Verbose)

	// AI generation can take a while; no other deadline is enforced
	client := &http.Client{Timeout: 5 * time.Minute}
	transport := questionbank.NewHTTPTransport(cfg.BaseURL, client)

	ui := newPrompter(bufio.NewScanner(os.Stdin), os.Stdout)
	console := questionbank.NewConsole(transport, ui, ui, cfg.PageSize)

	(&app{ui: ui, console: console}).run(context.Background())
}

type app struct {
	ui      *prompter
	console *questionbank.Console
}

func (a *app) run(ctx context.Context) {
	for {
		a.ui.println(headerStyle.Render("Question Bank Console"))
		a.ui.println("  1) Learning notes")
		a.ui.println("  2) Question bank")
		a.ui.println("  q) Quit")

		choice, ok := a.ui.ask("Select", "2")
		if !ok {
			return
		}
		switch strings.ToLower(choice) {
		case "1":
			a.ui.println("")
			a.ui.println(questionbank.LearningNotes)
		case "2":
			a.questionBank(ctx)
		case "q", "quit", "exit":
			return
		}
	}
}

const bankHelp = `Commands:
  s [text]     search title/keyword (empty clears)
  t [0-3]      filter by type: 0 all, 1 single, 2 multi, 3 coding
  n / p        next / previous page      size N   rows per page
  r            refresh                   a        add a question
  e ID         edit a question           d ID     delete a question
  x ID...      toggle selection          b        delete selected
  g            AI generate               h        help
  back         return to menu`

func (a *app) questionBank(ctx context.Context) {
	a.console.Load(ctx)

	for {
		if a.console.Generator().State() == questionbank.StatePreviewing {
			if !a.preview(ctx) {
				return
			}
			continue
		}

		a.renderTable()

		line, ok := a.ui.ask("bank", "")
		if !ok {
			return
		}
		cmd, arg := splitCommand(line)

		switch cmd {
		case "":
		case "h", "help":
			a.ui.println(bankHelp)
		case "back", "q":
			return
		case "s":
			a.console.State().SetSearch(arg)
		case "t":
			n, _ := strconv.Atoi(arg)
			if n < 0 || n > 3 {
				a.ui.Notify(questionbank.Notice{Level: questionbank.LevelError, Message: "type must be 0-3"})
				continue
			}
			a.console.State().SetTypeFilter(questionbank.QuestionType(n))
		case "n":
			a.console.State().Page++
		case "p":
			if a.console.State().Page > 1 {
				a.console.State().Page--
			}
		case "size":
			n, _ := strconv.Atoi(arg)
			a.console.State().SetPageSize(n)
		case "r":
			a.console.Load(ctx)
		case "a":
			a.add(ctx)
		case "e":
			a.edit(ctx, arg)
		case "d":
			if q, found := a.lookup(arg); found {
				a.console.Delete(ctx, q)
			}
		case "x":
			a.toggle(arg)
		case "b":
			a.console.BatchDelete(ctx)
		case "g":
			a.generate(ctx)
		default:
			a.ui.println("unknown command, h for help")
		}
	}
}

func (a *app) renderTable() {
	rows, total := a.console.View()
	state := a.console.State()

	pages := questionbank.PageCount(total, state.PageSize)
	if state.Page > pages {
		state.Page = pages
	}

	a.ui.println("")
	a.ui.println(renderQuestions(rows, a.console.Collection().IsSelected))
	a.ui.println(fmt.Sprintf("%d questions in total  page %d/%d  selected %d  search %q  type %s",
		total, state.Page, pages, a.console.Collection().SelectionCount(), state.Search, typeFilterLabel(state.TypeFilter)))
}

func (a *app) lookup(arg string) (questionbank.Question, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		a.ui.Notify(questionbank.Notice{Level: questionbank.LevelError, Message: "enter a question id"})
		return questionbank.Question{}, false
	}
	q, found := a.console.Collection().Find(id)
	if !found {
		a.ui.Notify(questionbank.Notice{Level: questionbank.LevelError, Message: fmt.Sprintf("no question with id %d", id)})
	}
	return q, found
}

func (a *app) toggle(arg string) {
	for _, field := range strings.Fields(arg) {
		id, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		if a.console.Collection().IsSelected(id) {
			a.console.Collection().Deselect(id)
		} else {
			a.console.Collection().Select(id)
		}
	}
}

func (a *app) add(ctx context.Context) {
	a.console.OpenAdd()
	form, ok := a.questionForm(questionbank.NewQuestionForm())
	if !ok {
		a.console.State().AddOpen = false
		return
	}
	if err := a.console.Add(ctx, form); err != nil {
		questionbank.VerboseLog("Add failed: %v", err)
	}
}

func (a *app) edit(ctx context.Context, arg string) {
	q, found := a.lookup(arg)
	if !found {
		return
	}
	if err := a.console.BeginEdit(q); err != nil {
		return
	}
	form, ok := a.questionForm(questionbank.FormFromQuestion(q))
	if !ok {
		a.console.State().EditOpen = false
		return
	}
	if err := a.console.Edit(ctx, q, form); err != nil {
		questionbank.VerboseLog("Edit failed: %v", err)
	}
}

func (a *app) questionForm(form questionbank.QuestionForm) (questionbank.QuestionForm, bool) {
	var ok bool

	if form.Title, ok = a.ui.ask("Title", form.Title); !ok {
		return form, false
	}
	typeText, ok := a.ui.ask("Type (1 single, 2 multi, 3 coding)", strconv.Itoa(int(form.Type)))
	if !ok {
		return form, false
	}
	n, _ := strconv.Atoi(typeText)
	form.Type = questionbank.QuestionType(n)

	diffText, ok := a.ui.ask("Difficulty (1 easy, 2 medium, 3 hard)", strconv.Itoa(int(form.Difficulty)))
	if !ok {
		return form, false
	}
	n, _ = strconv.Atoi(diffText)
	form.Difficulty = questionbank.Difficulty(n)

	lang, ok := a.ui.ask("Language (go, javascript, java, python, c++)", string(form.Language))
	if !ok {
		return form, false
	}
	form.Language = questionbank.Language(strings.ToLower(lang))

	if form.Keyword, ok = a.ui.ask("Keyword", form.Keyword); !ok {
		return form, false
	}

	if form.Type != questionbank.TypeCoding {
		if form.Answers, ok = a.ui.ask("Options, comma separated (A.opt1,B.opt2)", form.Answers); !ok {
			return form, false
		}
		if form.Right, ok = a.ui.ask("Correct options, comma separated (A or A,B)", form.Right); !ok {
			return form, false
		}
	}
	return form, true
}

func (a *app) generate(ctx context.Context) {
	gen := a.console.Generator()
	if err := gen.Open(); err != nil {
		return
	}

	form := questionbank.NewGenerateForm()
	var ok bool
	if form.Number, ok = a.ui.ask("How many questions (1-10)", form.Number); !ok {
		a.console.State().GenerateOpen = false
		return
	}
	lang, _ := a.ui.ask("Language (go, javascript, java, python, c++)", string(form.Language))
	form.Language = questionbank.Language(strings.ToLower(lang))
	typeText, _ := a.ui.ask("Type (1 single, 2 multi, 3 coding)", strconv.Itoa(int(form.Type)))
	n, _ := strconv.Atoi(typeText)
	form.Type = questionbank.QuestionType(n)
	diffText, _ := a.ui.ask("Difficulty (1 easy, 2 medium, 3 hard)", strconv.Itoa(int(form.Difficulty)))
	n, _ = strconv.Atoi(diffText)
	form.Difficulty = questionbank.Difficulty(n)
	form.Keyword, _ = a.ui.ask("Keyword", "")

	a.ui.println("Generating, this may take a while...")
	if err := gen.Propose(ctx, form); err != nil {
		a.console.State().GenerateOpen = false
	}
}

// preview shows the staged candidates until they are saved or discarded.
// It returns false when input ends.
func (a *app) preview(ctx context.Context) bool {
	gen := a.console.Generator()

	a.ui.println("")
	a.ui.println(headerStyle.Render("AI generated questions (not saved yet)"))
	a.ui.println(renderPreview(gen.Staged()))

	choice, ok := a.ui.ask("c) save all  x) discard", "c")
	if !ok {
		return false
	}
	switch strings.ToLower(choice) {
	case "c":
		gen.Commit(ctx)
	case "x":
		gen.Discard()
	}
	return true
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}
