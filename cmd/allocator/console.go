package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/retakesallocator/loadout/internal/frame"
	"github.com/retakesallocator/loadout/internal/menu"
	"github.com/retakesallocator/loadout/internal/players"
	"github.com/retakesallocator/loadout/pkg/core"
)

const consoleHelp = `commands:
  connect <slot> <steamid> <name>   join the server
  team <slot> <t|ct|spec>           change team
  say <slot> <text>                 chat, e.g. "say 1 guns" or "say 1 !gun ak47"
  pick <slot> <n>                   choose entry n of the open menu
  disconnect <slot>                 leave the server
  tick [n]                          run n frames (default 1)
  help | quit`

// settleDelay gives queued store work a moment before a tick runs frames.
const settleDelay = 20 * time.Millisecond

// events is what the console drives; *handlers.Service implements it.
type events interface {
	OnPlayerChat(slot int, text string) bool
	OnMenuSelect(slot, index int) error
	OnTeamChange(slot int, team core.Team)
	OnDisconnect(slot int)
}

// consoleHost renders menus as numbered text.
type consoleHost struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsoleHost(out io.Writer) *consoleHost {
	return &consoleHost{out: out}
}

func (h *consoleHost) render(slot int, s menu.Screen) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, "[%d] == %s ==\n", slot, s.Title)
	for i, e := range s.Entries {
		fmt.Fprintf(h.out, "[%d]  %d. %s\n", slot, i+1, e.Label)
	}
}

func (h *consoleHost) Show(p players.Handle, s menu.Screen)    { h.render(p.Slot, s) }
func (h *consoleHost) Refresh(p players.Handle, s menu.Screen) { h.render(p.Slot, s) }

func (h *consoleHost) Close(p players.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, "[%d] menu closed\n", p.Slot)
}

// console plays the game server: it owns the frame loop and turns input lines into events.
type console struct {
	events   events
	registry *players.Registry
	frames   *frame.Scheduler
	in       io.Reader
	out      io.Writer
}

func newConsole(ev events, registry *players.Registry, frames *frame.Scheduler, in io.Reader, out io.Writer) *console {
	return &console{events: ev, registry: registry, frames: frames, in: in, out: out}
}

var errQuit = errors.New("quit")

// Run reads commands until EOF, quit or ctx is done.
func (c *console) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				c.tick(1)
				return nil
			}
			err := c.exec(strings.TrimSpace(line))
			if errors.Is(err, errQuit) {
				c.tick(1)
				return nil
			}
			if err != nil {
				fmt.Fprintln(c.out, "error:", err)
			}
			c.frames.RunFrame()
		}
	}
}

func (c *console) exec(line string) error {
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help":
		fmt.Fprintln(c.out, consoleHelp)
		return nil
	case "quit", "exit":
		return errQuit
	case "tick":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("tick: bad frame count %q", args[0])
			}
			n = v
		}
		c.tick(n)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("%s: missing slot", cmd)
	}
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%s: bad slot %q", cmd, args[0])
	}
	args = args[1:]

	switch cmd {
	case "connect":
		if len(args) < 1 {
			return errors.New("connect: missing steam id")
		}
		name := "player" + strconv.Itoa(slot)
		if len(args) > 1 {
			name = strings.Join(args[1:], " ")
		}
		h := c.registry.Connect(slot, args[0], name)
		fmt.Fprintf(c.out, "[%d] %s connected (steam %d)\n", slot, name, h.SteamID)
	case "team":
		if len(args) < 1 {
			return errors.New("team: missing team")
		}
		team, err := core.ParseTeam(args[0])
		if err != nil {
			return fmt.Errorf("team: %w", err)
		}
		c.events.OnTeamChange(slot, team)
	case "say":
		text := strings.Join(args, " ")
		if !c.events.OnPlayerChat(slot, text) {
			fmt.Fprintf(c.out, "[%d] says: %s\n", slot, text)
		}
	case "pick":
		if len(args) < 1 {
			return errors.New("pick: missing entry number")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("pick: bad entry %q", args[0])
		}
		return c.events.OnMenuSelect(slot, n-1)
	case "disconnect":
		c.events.OnDisconnect(slot)
		fmt.Fprintf(c.out, "[%d] disconnected\n", slot)
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (c *console) tick(n int) {
	for i := 0; i < n; i++ {
		time.Sleep(settleDelay)
		c.frames.RunFrame()
	}
}
