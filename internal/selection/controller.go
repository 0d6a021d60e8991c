// Package selection applies menu choices: it persists them off the game thread,
// mirrors weapon picks to the other team in shared-pool mode and reports the
// outcome to the player on a later frame.
package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/retakesallocator/loadout/internal/capability"
	"github.com/retakesallocator/loadout/internal/dispatcher"
	"github.com/retakesallocator/loadout/internal/loadout"
	"github.com/retakesallocator/loadout/internal/messages"
	"github.com/retakesallocator/loadout/internal/players"
	"github.com/retakesallocator/loadout/internal/stats"
	"github.com/retakesallocator/loadout/pkg/core"
)

// Dispatcher commands served by the controller.
const (
	CmdWeapon     = "selection:weapon"
	CmdSniper     = "selection:sniper"
	CmdZeus       = "selection:zeus"
	CmdEnemyStuff = "selection:enemy_stuff"
)

// ErrQueueFull is returned by Dispatch when the write queue is saturated.
var ErrQueueFull = dispatcher.ErrQueueFull

// Store is the write side of the preference store.
type Store interface {
	SetWeaponPreference(ctx context.Context, playerID uint64, team core.Team, category core.AllocationType, weapon core.WeaponID) error
	SetSniperPreference(ctx context.Context, playerID uint64, pref core.SniperPreference) error
	SetZeusPreference(ctx context.Context, playerID uint64, enabled bool) error
	SetEnemyEquipmentPreference(ctx context.Context, playerID uint64, flags core.EnemyStuffFlags) error
}

// Catalog derives categories and display names.
type Catalog interface {
	CategoryFor(round core.RoundType, team core.Team, id core.WeaponID, sharedPool bool) (core.AllocationType, bool)
	DisplayName(id core.WeaponID) string
}

// Notifier delivers feedback on the game thread.
type Notifier interface {
	Notify(h players.Handle, message string)
}

// Text looks up localized messages.
type Text interface {
	T(key string, args ...any) string
}

// Options are the controller switches taken from config.
type Options struct {
	SharedPool   bool
	WriteTimeout time.Duration
	QueueSize    int
}

// Dependencies are the collaborators of a Controller.
type Dependencies struct {
	Dispatcher   *dispatcher.Dispatcher
	Store        Store
	Catalog      Catalog
	Capabilities capability.Provider
	Notifier     Notifier
	Text         Text
	Stats        stats.Recorder
	Logger       *slog.Logger
}

// BestEffort is the result of a non-critical side effect. Callers discard it.
type BestEffort struct {
	Attempted bool
	Err       error
}

// Controller implements menu.Controller. Its Apply methods run on the game
// thread and never block: the store write happens on a dispatcher worker.
type Controller struct {
	deps Dependencies
	opts Options

	writes         metric.Int64Counter
	mirrorFailures metric.Int64Counter
}

type weaponJob struct {
	player   players.Player
	team     core.Team
	round    core.RoundType
	category core.AllocationType
	weapon   core.WeaponID
}

type sniperJob struct {
	player   players.Player
	previous core.SniperPreference
	pref     core.SniperPreference
}

type zeusJob struct {
	player  players.Player
	enabled bool
}

type enemyStuffJob struct {
	player players.Player
	pref   core.EnemyStuffPreference
}

// New registers the controller's buffered handlers on deps.Dispatcher.
func New(deps Dependencies, opts Options) (*Controller, error) {
	if deps.Dispatcher == nil || deps.Store == nil {
		return nil, errors.New("selection: dispatcher and store are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Stats == nil {
		deps.Stats = stats.Nop{}
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}

	c := &Controller{deps: deps, opts: opts}

	m := otel.Meter("github.com/retakesallocator/loadout/internal/selection")
	var err error
	c.writes, err = m.Int64Counter("selection.writes",
		metric.WithDescription("Primary preference writes by kind and outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating writes counter: %w", err)
	}
	c.mirrorFailures, err = m.Int64Counter("selection.mirror.failures",
		metric.WithDescription("Shared-pool mirror writes that failed"))
	if err != nil {
		return nil, fmt.Errorf("creating mirror failures counter: %w", err)
	}

	d := deps.Dispatcher
	d.Register(CmdWeapon, c.handleWeapon, dispatcher.Buffered(opts.QueueSize), dispatcher.Logged())
	d.Register(CmdSniper, c.handleSniper, dispatcher.Buffered(opts.QueueSize), dispatcher.Logged())
	d.Register(CmdZeus, c.handleZeus, dispatcher.Buffered(opts.QueueSize), dispatcher.Logged())
	d.Register(CmdEnemyStuff, c.handleEnemyStuff, dispatcher.Buffered(opts.QueueSize), dispatcher.Logged())
	return c, nil
}

// ApplyWeaponSelection stores weapon for the category it derives to under round.
func (c *Controller) ApplyWeaponSelection(p players.Player, team core.Team, round core.RoundType, weapon core.WeaponID) {
	if !p.HasIdentity() || !team.IsPlaying() {
		return
	}
	category, ok := c.deps.Catalog.CategoryFor(round, team, weapon, c.opts.SharedPool)
	if !ok {
		c.deps.Logger.Debug("weapon has no category", "weapon", weapon, "team", team, "round", round)
		return
	}
	c.enqueue(p, CmdWeapon, weaponJob{player: p, team: team, round: round, category: category, weapon: weapon})
}

// ApplySniperPreference stores pref for both teams. There is no legality check.
func (c *Controller) ApplySniperPreference(p players.Player, view *loadout.View, pref core.SniperPreference) {
	if !p.HasIdentity() {
		return
	}
	previous := view.PreferredSniper
	view.PreferredSniper = pref
	c.enqueue(p, CmdSniper, sniperJob{player: p, previous: previous, pref: pref})
}

// ApplyZeusPreference stores enabled unless it matches the current value.
func (c *Controller) ApplyZeusPreference(p players.Player, view *loadout.View, enabled bool) {
	if !p.HasIdentity() || view.ZeusEnabled == enabled {
		return
	}
	view.ZeusEnabled = enabled
	c.enqueue(p, CmdZeus, zeusJob{player: p, enabled: enabled})
}

// ApplyEnemyEquipmentPreference checks the capability, normalizes raw and stores
// it unless it matches the current value.
func (c *Controller) ApplyEnemyEquipmentPreference(p players.Player, view *loadout.View, raw core.EnemyStuffFlags) {
	if !p.HasIdentity() {
		return
	}
	if c.deps.Capabilities == nil || !c.deps.Capabilities.HasEnemyEquipmentCapability(p) {
		c.deps.Notifier.Notify(p.Handle, c.deps.Text.T("weapon_preference.only_vip_can_use"))
		return
	}
	pref := core.NormalizeEnemyStuff(raw)
	if view.EnemyStuff == pref {
		return
	}
	view.EnemyStuff = pref
	c.enqueue(p, CmdEnemyStuff, enemyStuffJob{player: p, pref: pref})
}

// enqueue hands a job to its worker. A full or closed queue means nothing is written.
func (c *Controller) enqueue(p players.Player, command string, job any) {
	if _, err := c.deps.Dispatcher.Dispatch(dispatcher.Event{Command: command, Payload: job}); err != nil {
		c.deps.Logger.Warn("preference not queued", "command", command, "slot", p.Slot, "error", err)
		c.count(command, "dropped")
		c.deps.Notifier.Notify(p.Handle, c.deps.Text.T("weapon_preference.not_saved"))
	}
}

func (c *Controller) count(command, outcome string) {
	c.writes.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", command),
		attribute.String("outcome", outcome),
	))
}

// primary runs a primary write and reports failure to the player.
func (c *Controller) primary(command string, p players.Player, write func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.WriteTimeout)
	defer cancel()

	if err := write(ctx); err != nil {
		c.deps.Logger.Warn("preference not saved", "command", command, "player", p.SteamID, "error", err)
		c.count(command, "error")
		c.deps.Notifier.Notify(p.Handle, c.deps.Text.T("weapon_preference.not_saved"))
		return err
	}
	c.count(command, "ok")
	return nil
}

func (c *Controller) handleWeapon(e dispatcher.Event) (any, error) {
	job, ok := e.Payload.(weaponJob)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", e.Payload)
	}
	err := c.primary(CmdWeapon, job.player, func(ctx context.Context) error {
		return c.deps.Store.SetWeaponPreference(ctx, job.player.SteamID, job.team, job.category, job.weapon)
	})
	if err == nil {
		c.deps.Stats.RecordWeaponPreference(job.team, job.category, job.round, job.weapon, c.opts.SharedPool)
		c.deps.Notifier.Notify(job.player.Handle, c.deps.Text.T("weapon_preference.set_preference",
			c.deps.Text.T(messages.TeamKey(job.team)),
			c.categoryLabel(job.round, job.category),
			c.deps.Catalog.DisplayName(job.weapon),
		))
	}

	if c.opts.SharedPool {
		_ = c.mirror(job)
	}
	return nil, err
}

// mirror writes the same weapon as the opposite team's choice whatever the
// primary write returned. Its outcome never reaches the player.
func (c *Controller) mirror(job weaponJob) BestEffort {
	other := job.team.Opposite()
	category, ok := c.deps.Catalog.CategoryFor(job.round, other, job.weapon, true)
	if !ok {
		return BestEffort{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.WriteTimeout)
	defer cancel()
	err := c.deps.Store.SetWeaponPreference(ctx, job.player.SteamID, other, category, job.weapon)
	if err != nil {
		c.deps.Logger.Debug("mirror write failed", "player", job.player.SteamID, "team", other, "error", err)
		c.mirrorFailures.Add(ctx, 1)
	}
	return BestEffort{Attempted: true, Err: err}
}

func (c *Controller) categoryLabel(round core.RoundType, category core.AllocationType) string {
	return c.deps.Text.T(messages.RoundKey(round)) + " " + c.deps.Text.T(messages.CategoryKey(category))
}

func (c *Controller) handleSniper(e dispatcher.Event) (any, error) {
	job, ok := e.Payload.(sniperJob)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", e.Payload)
	}
	err := c.primary(CmdSniper, job.player, func(ctx context.Context) error {
		return c.deps.Store.SetSniperPreference(ctx, job.player.SteamID, job.pref)
	})
	if err != nil {
		return nil, err
	}
	c.deps.Notifier.Notify(job.player.Handle, c.sniperMessage(job.previous, job.pref))
	return nil, nil
}

// sniperMessage describes the change. Unsetting names the previous choice.
func (c *Controller) sniperMessage(previous, pref core.SniperPreference) string {
	t := c.deps.Text
	if w, ok := pref.Weapon(); ok {
		return t.T("weapon_preference.set_preference_preferred", c.deps.Catalog.DisplayName(w))
	}
	if pref.IsRandom() {
		return t.T("weapon_preference.set_preference_preferred_random")
	}
	if w, ok := previous.Weapon(); ok {
		return t.T("weapon_preference.unset_preference_preferred", c.deps.Catalog.DisplayName(w))
	}
	if previous.IsRandom() {
		return t.T("weapon_preference.unset_preference_preferred_random")
	}
	// Nothing was set before, so there is nothing to report as unset.
	return ""
}

func (c *Controller) handleZeus(e dispatcher.Event) (any, error) {
	job, ok := e.Payload.(zeusJob)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", e.Payload)
	}
	err := c.primary(CmdZeus, job.player, func(ctx context.Context) error {
		return c.deps.Store.SetZeusPreference(ctx, job.player.SteamID, job.enabled)
	})
	if err != nil {
		return nil, err
	}
	key := "guns_menu.zeus_disabled_message"
	if job.enabled {
		key = "guns_menu.zeus_enabled_message"
	}
	c.deps.Notifier.Notify(job.player.Handle, c.deps.Text.T(key))
	return nil, nil
}

func (c *Controller) handleEnemyStuff(e dispatcher.Event) (any, error) {
	job, ok := e.Payload.(enemyStuffJob)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", e.Payload)
	}
	err := c.primary(CmdEnemyStuff, job.player, func(ctx context.Context) error {
		return c.deps.Store.SetEnemyEquipmentPreference(ctx, job.player.SteamID, job.pref.Flags())
	})
	if err != nil {
		return nil, err
	}
	c.deps.Notifier.Notify(job.player.Handle, c.deps.Text.T(messages.EnemyStuffResultKey(job.pref)))
	return nil, nil
}
