package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/retakesallocator/loadout/internal/capability"
	"github.com/retakesallocator/loadout/internal/catalog"
	"github.com/retakesallocator/loadout/internal/dispatcher"
	"github.com/retakesallocator/loadout/internal/loadout"
	"github.com/retakesallocator/loadout/internal/logging"
	"github.com/retakesallocator/loadout/internal/menu"
	"github.com/retakesallocator/loadout/internal/players"
	"github.com/retakesallocator/loadout/pkg/core"
)

// CmdReadSettings is the dispatcher command that loads settings for a menu.
const CmdReadSettings = "handlers:read_settings"

// gunCommands prefix the quick weapon command, e.g. "!gun ak47".
var gunCommands = []string{"!gun", "/gun", "gun"}

// SettingsReader is the read side of the preference store.
type SettingsReader interface {
	GetUserSettings(ctx context.Context, playerID uint64) (*core.UserLoadoutSettings, error)
}

// Notifier delivers messages and callbacks on the game thread.
type Notifier interface {
	Notify(h players.Handle, message string)
	OnFrame(h players.Handle, fn func())
}

// MenuHost renders menu screens for a player.
type MenuHost interface {
	Show(h players.Handle, screen menu.Screen)
	Refresh(h players.Handle, screen menu.Screen)
	Close(h players.Handle)
}

// Text looks up localized messages.
type Text interface {
	T(key string, args ...any) string
}

// Settings are the loadout switches the service reads on every trigger.
type Settings struct {
	SharedPool           bool
	AllowWeaponSelection bool
	EnableSniper         bool
	EnableEnemyStuff     bool
	EnableZeus           bool
	MenuCommands         []string
	Defaults             loadout.Defaults
	ReadTimeout          time.Duration
	QueueSize            int
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Players      *players.Registry
	Store        SettingsReader
	Catalog      *catalog.Catalog
	Capabilities capability.Provider
	Controller   menu.Controller
	Dispatcher   *dispatcher.Dispatcher
	Notifier     Notifier
	Host         MenuHost
	Text         Text
	LogManager   *logging.SlogManager
}

// Sessions holds the open menu session of every slot.
type Sessions struct {
	mu     sync.RWMutex
	bySlot map[int]*menu.Session
}

// NewSessions creates an empty session table.
func NewSessions() *Sessions {
	return &Sessions{bySlot: make(map[int]*menu.Session)}
}

// Get returns the open session of slot.
func (ss *Sessions) Get(slot int) (*menu.Session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.bySlot[slot]
	return s, ok
}

// Set replaces the session of slot.
func (ss *Sessions) Set(slot int, s *menu.Session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.bySlot[slot] = s
}

// Delete drops the session of slot.
func (ss *Sessions) Delete(slot int) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.bySlot, slot)
}

// Len returns the number of open sessions.
func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.bySlot)
}

// Service turns game events into menu sessions and selections.
type Service struct {
	deps         Dependencies
	settings     Settings
	sessions     *Sessions
	writeLogFunc func(functionName, data, level string)
}

type readJob struct {
	handle players.Handle
}

// NewService creates a new handler service and registers its settings reader
// on the dispatcher.
func NewService(deps Dependencies, settings Settings, sessions *Sessions) *Service {
	if settings.ReadTimeout <= 0 {
		settings.ReadTimeout = 5 * time.Second
	}
	if settings.QueueSize <= 0 {
		settings.QueueSize = 256
	}
	s := &Service{
		deps:     deps,
		settings: settings,
		sessions: sessions,
	}
	// Default writeLog function uses the logging manager
	s.writeLogFunc = func(functionName, data, level string) {
		if deps.LogManager != nil {
			deps.LogManager.WriteLog(functionName, data, level)
		}
	}
	deps.Dispatcher.Register(CmdReadSettings, s.handleReadSettings, dispatcher.Buffered(settings.QueueSize), dispatcher.Logged())
	return s
}

// Sessions returns the session table.
func (s *Service) Sessions() *Sessions {
	return s.sessions
}

func (s *Service) writeLog(functionName, data, level string) {
	s.writeLogFunc(functionName, data, level)
}

func (s *Service) logger() *slog.Logger {
	if s.deps.LogManager == nil {
		return slog.Default()
	}
	return s.deps.LogManager.Logger()
}

// ContextProvider returns live attributes for every log record.
func (s *Service) ContextProvider() logging.ContextProvider {
	return func() []slog.Attr {
		return []slog.Attr{
			slog.Int("players", s.deps.Players.Count()),
			slog.Int("menus", s.sessions.Len()),
		}
	}
}

// OnPlayerChat handles a chat line. It reports whether the line was a command.
func (s *Service) OnPlayerChat(slot int, text string) bool {
	line := strings.TrimSpace(text)
	if s.isMenuCommand(line) {
		s.openMenu(slot)
		return true
	}
	if query, ok := gunQuery(line); ok {
		s.quickSelect(slot, query)
		return true
	}
	return false
}

func (s *Service) isMenuCommand(line string) bool {
	for _, cmd := range s.settings.MenuCommands {
		if strings.EqualFold(line, cmd) {
			return true
		}
	}
	return false
}

func gunQuery(line string) (string, bool) {
	cmd, rest, found := strings.Cut(line, " ")
	if !found {
		return "", false
	}
	for _, prefix := range gunCommands {
		if strings.EqualFold(cmd, prefix) {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// guard runs the trigger checks in order and reports the first failure to the player.
func (s *Service) guard(slot int) (players.Player, bool) {
	p, ok := s.deps.Players.Get(slot)
	if !ok {
		return p, false
	}
	if !s.settings.AllowWeaponSelection {
		s.deps.Notifier.Notify(p.Handle, s.deps.Text.T("weapon_preference.cannot_choose"))
		return p, false
	}
	if !p.Team.IsPlaying() {
		s.deps.Notifier.Notify(p.Handle, s.deps.Text.T("weapon_preference.join_team"))
		return p, false
	}
	if !p.HasIdentity() {
		s.deps.Notifier.Notify(p.Handle, s.deps.Text.T("guns_menu.invalid_steam_id"))
		return p, false
	}
	return p, true
}

func (s *Service) openMenu(slot int) {
	functionName := ":MENU:OPEN:"
	p, ok := s.guard(slot)
	if !ok {
		return
	}
	if _, err := s.deps.Dispatcher.Dispatch(dispatcher.Event{
		Command: CmdReadSettings,
		Payload: readJob{handle: p.Handle},
	}); err != nil {
		s.writeLog(functionName, fmt.Sprintf("settings read not queued, using defaults: %v", err), "WARN")
		s.deps.Notifier.OnFrame(p.Handle, func() { s.showMenu(p.Handle, nil) })
	}
}

func (s *Service) handleReadSettings(e dispatcher.Event) (any, error) {
	job, ok := e.Payload.(readJob)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", e.Payload)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.settings.ReadTimeout)
	defer cancel()

	settings, err := s.deps.Store.GetUserSettings(ctx, job.handle.SteamID)
	if err != nil {
		s.logger().Warn("reading settings failed, using defaults", "player", job.handle.SteamID, "error", err)
		settings = nil
	}
	s.deps.Notifier.OnFrame(job.handle, func() { s.showMenu(job.handle, settings) })
	return nil, nil
}

// showMenu runs on the game thread once settings are known.
func (s *Service) showMenu(h players.Handle, settings *core.UserLoadoutSettings) {
	p, ok := s.deps.Players.Get(h.Slot)
	if !ok || p.Conn != h.Conn {
		return
	}
	if !p.Team.IsPlaying() {
		s.deps.Notifier.Notify(h, s.deps.Text.T("weapon_preference.join_team"))
		return
	}

	legal := s.deps.Catalog.LegalSet(p.Team, s.settings.SharedPool)
	view := loadout.Resolve(settings, legal, p.Team, s.settings.Defaults)
	view.PlayerID = p.SteamID

	opts := menu.Options{
		SniperScreen:     s.settings.EnableSniper && s.deps.Capabilities.IsVip(p),
		EnemyStuffScreen: s.settings.EnableEnemyStuff && s.deps.Capabilities.HasEnemyEquipmentCapability(p),
		ZeusToggle:       s.settings.EnableZeus,
		Snipers:          s.deps.Catalog.Snipers(p.Team, s.settings.SharedPool),
	}
	tree := menu.NewTree(view, opts, s.deps.Text, s.deps.Catalog)
	session := menu.NewSession(p, view, tree, s.deps.Controller)

	s.sessions.Set(p.Slot, session)
	s.deps.Host.Show(h, session.Screen())
}

// OnMenuSelect activates entry index of the slot's open menu.
func (s *Service) OnMenuSelect(slot, index int) error {
	session, ok := s.sessions.Get(slot)
	if !ok {
		return menu.ErrClosed
	}
	h := session.Player().Handle

	transition, err := session.Activate(index)
	if err != nil {
		if errors.Is(err, menu.ErrClosed) {
			s.sessions.Delete(slot)
		}
		return err
	}

	switch transition {
	case menu.TransitionClose:
		s.sessions.Delete(slot)
		s.deps.Host.Close(h)
	case menu.TransitionRefresh:
		s.deps.Host.Refresh(h, session.Screen())
	default:
		s.deps.Host.Show(h, session.Screen())
	}
	return nil
}

// quickSelect applies a weapon named in chat under the first round it fits.
func (s *Service) quickSelect(slot int, query string) {
	p, ok := s.guard(slot)
	if !ok {
		return
	}

	id, err := s.deps.Catalog.FindByName(query)
	if err != nil {
		s.deps.Notifier.Notify(p.Handle, s.deps.Text.T("weapon_preference.not_found", query))
		return
	}

	for _, round := range core.RoundTypes {
		category, ok := s.deps.Catalog.CategoryFor(round, p.Team, id, s.settings.SharedPool)
		if !ok {
			continue
		}
		if category == core.Preferred {
			s.quickSniper(p, id)
			return
		}
		if session, open := s.sessions.Get(slot); open && session.View().Team == p.Team {
			session.View().SetCurrent(category, id)
		}
		s.deps.Controller.ApplyWeaponSelection(p, p.Team, round, id)
		return
	}
	s.deps.Notifier.Notify(p.Handle, s.deps.Text.T("weapon_preference.not_allowed", s.deps.Catalog.DisplayName(id)))
}

// quickSniper stores a sniper named in chat under the same gates as the sniper screen.
func (s *Service) quickSniper(p players.Player, id core.WeaponID) {
	if !s.settings.EnableSniper || !s.deps.Capabilities.IsVip(p) {
		s.deps.Notifier.Notify(p.Handle, s.deps.Text.T("weapon_preference.not_allowed", s.deps.Catalog.DisplayName(id)))
		return
	}
	view := &loadout.View{Team: p.Team, PlayerID: p.SteamID}
	if session, open := s.sessions.Get(p.Slot); open {
		view = session.View()
	}
	s.deps.Controller.ApplySniperPreference(p, view, core.SniperWeapon(id))
}

// OnTeamChange closes a menu built for the previous team.
func (s *Service) OnTeamChange(slot int, team core.Team) {
	if err := s.deps.Players.SetTeam(slot, team); err != nil {
		s.logger().Debug("team change for empty slot", "slot", slot)
		return
	}
	session, ok := s.sessions.Get(slot)
	if !ok || session.View().Team == team {
		return
	}
	session.Close()
	s.sessions.Delete(slot)
	s.deps.Host.Close(session.Player().Handle)
}

// OnDisconnect drops the slot's menu and invalidates its handle.
func (s *Service) OnDisconnect(slot int) {
	if session, ok := s.sessions.Get(slot); ok {
		session.Close()
		s.sessions.Delete(slot)
	}
	if h, ok := s.deps.Players.Disconnect(slot); ok {
		s.writeLog(":PLAYER:DISCONNECT:", fmt.Sprintf("slot %d (%d) disconnected", h.Slot, h.SteamID), "DEBUG")
	}
}
