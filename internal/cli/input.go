// Package cli is an interactive line by line décima composer for debugging the engine.
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/decimaserve/internal/logger"
	"github.com/bastiangx/decimaserve/internal/utils"
	"github.com/bastiangx/decimaserve/pkg/decima"
	"github.com/bastiangx/decimaserve/pkg/store"
	"github.com/charmbracelet/log"
)

const help = `commands:
  <text>          write the active verse and move to the next slot
  :<n> <text>     write verse n (1-10)
  :go <n>         make verse n active
  :a <n|word>     close the active verse with suggestion n or a word
  :r <word>       rhymes for a word
  :p              print the whole composition
  :s [title]      save the composition
  :ls             list saved compositions
  :o <id>         open a saved composition
  :rm <id>        delete a saved composition
  :new            start over
  :q              quit`

// Options toggles the optional sections of the analysis printout.
type Options struct {
	ShowGroups bool
	ShowLinks  bool
	// NoFilter lets :r look up anything, numbers and symbols included.
	NoFilter bool
}

// InputHandler reads verses and commands, printing the analysis after each change.
type InputHandler struct {
	engine  *decima.Engine
	store   store.Store
	opts    Options
	in      io.Reader
	out     *log.Logger
	style   palette
	verses  []string
	active  int
	current string // id of the opened composition, if any
	last    []string
}

// NewInputHandler creates a handler on stdin/stderr. st may be nil, which disables the save commands.
func NewInputHandler(engine *decima.Engine, st store.Store, opts Options) *InputHandler {
	return NewInputHandlerWithIO(engine, st, opts, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO creates a handler reading in and printing to out.
func NewInputHandlerWithIO(engine *decima.Engine, st store.Store, opts Options, in io.Reader, out io.Writer) *InputHandler {
	l := logger.NewTo(out, "")
	l.SetReportTimestamp(false)
	return &InputHandler{
		engine: engine,
		store:  st,
		opts:   opts,
		in:     in,
		out:    l,
		style:  newPalette(out),
		verses: make([]string, engine.Form().Slots),
	}
}

// Start runs the loop until input ends or :q.
func (h *InputHandler) Start() error {
	h.out.Print("DecimaServe CLI [BETA]")
	h.out.Printf("form %s, %d syllables per verse. :h for help (Ctrl+C to exit)", h.engine.Form().Scheme, h.engine.Form().TargetSyllables)
	h.showActive()

	reader := bufio.NewReader(h.in)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			if quit := h.handleInput(line); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput processes one input line and reports whether to quit.
func (h *InputHandler) handleInput(line string) bool {
	if !strings.HasPrefix(line, ":") {
		h.write(h.active, line)
		h.advance()
		return false
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	if n, err := strconv.Atoi(cmd); err == nil {
		if !h.validSlot(n - 1) {
			return false
		}
		h.write(n-1, arg)
		return false
	}

	switch cmd {
	case "q", "quit":
		return true
	case "h", "help":
		h.out.Print(help)
	case "go":
		n, err := strconv.Atoi(arg)
		if err != nil || !h.validSlot(n-1) {
			h.out.Errorf("Usage: :go <1-%d>", len(h.verses))
			return false
		}
		h.active = n - 1
		h.showActive()
	case "a":
		h.apply(arg)
	case "r":
		h.rhymes(arg)
	case "p":
		h.printAll()
	case "new":
		h.verses = make([]string, len(h.verses))
		h.active = 0
		h.current = ""
		h.showActive()
	case "s":
		h.save(arg)
	case "ls":
		h.list()
	case "o":
		h.open(arg)
	case "rm":
		h.remove(arg)
	default:
		h.out.Errorf("Unknown command: %s (:h for help)", cmd)
	}
	return false
}

func (h *InputHandler) validSlot(i int) bool {
	if i < 0 || i >= len(h.verses) {
		h.out.Errorf("Verse must be between 1 and %d", len(h.verses))
		return false
	}
	return true
}

// write stores text in slot i and prints that line with its group rhymes.
func (h *InputHandler) write(i int, text string) {
	h.verses[i] = text

	start := time.Now()
	a := h.engine.Analyze(h.verses, i)
	log.Debugf("Took [ %v ] to analyse verse %d", time.Since(start), i+1)

	line := a.Lines[i]
	h.out.Print(h.style.renderLine(line, h.engine.Form().TargetSyllables, false))
	if h.opts.ShowGroups && len(line.Rhymes) > 0 {
		h.out.Printf("   rhymes: %s", h.style.renderWords(line.Rhymes))
	}
}

// advance moves to the next slot, if any, and shows what it needs.
func (h *InputHandler) advance() {
	if h.active < len(h.verses)-1 {
		h.active++
		h.showActive()
		return
	}
	h.out.Print("last verse written, :p to review")
	h.printAll()
}

// showActive prints the prompt for the active slot with its closing words.
func (h *InputHandler) showActive() {
	a := h.engine.Analyze(h.verses, h.active)
	h.last = a.LastWord

	line := a.Lines[h.active]
	h.out.Printf("verse %d (%c)", h.active+1, line.Letter)
	if len(h.last) > 0 {
		h.out.Printf("   close with: %s", h.style.renderWords(h.last))
	}
	h.out.Print("> ")
}

// apply closes the active verse with suggestion n or with a literal word.
func (h *InputHandler) apply(arg string) {
	if arg == "" {
		h.out.Error("Usage: :a <n|word>")
		return
	}
	word := arg
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(h.last) {
			h.out.Errorf("No suggestion %d", n)
			return
		}
		word = h.last[n-1]
	}
	h.write(h.active, decima.ApplySuggestion(h.verses[h.active], word))
}

func (h *InputHandler) rhymes(word string) {
	if word == "" {
		h.out.Error("Usage: :r <word>")
		return
	}
	if !h.opts.NoFilter && !utils.IsValidWord(strings.ToLower(word)) {
		h.out.Warnf("No rhymes for '%s' (filtered out)", word)
		return
	}

	limit := h.engine.Suggester().Options().GroupLimit
	words := h.engine.Suggester().FindRhymingWords(word, limit)
	if len(words) == 0 {
		h.out.Warnf("No rhymes found for '%s'", word)
		return
	}
	h.out.Printf("Found %d rhymes for '%s':", len(words), word)
	h.out.Print("   " + h.style.renderWords(words))
}

func (h *InputHandler) printAll() {
	a := h.engine.Analyze(h.verses, h.active)
	target := h.engine.Form().TargetSyllables
	for _, line := range a.Lines {
		h.out.Print(h.style.renderLine(line, target, line.Index == h.active))
	}
	h.out.Printf("%d/%d verses in metre", a.Exact, len(a.Lines))
	if h.opts.ShowGroups {
		for _, g := range h.style.renderGroups(h.engine.Form().Scheme, a.Groups) {
			h.out.Print("   " + g)
		}
	}
	if h.opts.ShowLinks {
		h.out.Print("   links: " + h.style.renderLinks(a.Links))
	}
}

func (h *InputHandler) requireStore() bool {
	if h.store == nil {
		h.out.Error("No store configured")
		return false
	}
	return true
}

func (h *InputHandler) save(title string) {
	if !h.requireStore() {
		return
	}
	var (
		c   store.Composition
		err error
	)
	if h.current != "" {
		c, err = h.store.Update(h.current, title, h.verses, "")
	} else {
		c, err = h.store.Create(title, h.verses, "")
	}
	if err != nil {
		h.out.Errorf("Save failed: %v", err)
		return
	}
	h.current = c.ID
	h.out.Printf("Saved '%s' (%s)", c.Title, c.ID)
}

func (h *InputHandler) list() {
	if !h.requireStore() {
		return
	}
	all, err := h.store.List()
	if err != nil {
		h.out.Errorf("List failed: %v", err)
		return
	}
	if len(all) == 0 {
		h.out.Print("No saved compositions")
		return
	}
	for i, c := range all {
		h.out.Printf("%2d. %s  %s  %s", i+1, c.ID, c.Title, h.style.dim.Render(c.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
}

func (h *InputHandler) open(id string) {
	if !h.requireStore() {
		return
	}
	c, err := h.store.Get(id)
	if err != nil {
		h.out.Errorf("Open failed: %v", err)
		return
	}
	h.verses = h.engine.Form().Fit(c.Verses)
	h.current = c.ID
	h.active = 0
	h.out.Printf("Opened '%s'", c.Title)
	h.printAll()
}

func (h *InputHandler) remove(id string) {
	if !h.requireStore() {
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.out.Errorf("Delete failed: %v", err)
		return
	}
	if h.current == id {
		h.current = ""
	}
	h.out.Printf("Deleted %s", id)
}
