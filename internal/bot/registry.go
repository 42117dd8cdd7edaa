package bot

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Registry holds modules in registration order.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
	names   map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds a module. A second module with the same name is ignored.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[m.Name()]; ok {
		slog.Warn("ignored duplicate module registration", "module", m.Name())
		return
	}
	r.names[m.Name()] = struct{}{}
	r.modules = append(r.modules, m)
}

// Modules returns a copy of the registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.modules)
}

// Commands returns every command offered by the registered modules, by name.
func (r *Registry) Commands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, m := range r.Modules() {
		commands = append(commands, m.Commands()...)
	}
	slices.SortFunc(commands, func(a, b *discordgo.ApplicationCommand) int {
		return strings.Compare(a.Name, b.Name)
	})
	return commands
}

// globalRegistry collects modules that register themselves from init().
var globalRegistry = NewRegistry()

// Register adds a module to the global registry.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns the modules in the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// Commands returns the commands of every module in the global registry.
func Commands() []*discordgo.ApplicationCommand {
	return globalRegistry.Commands()
}

// ResetGlobalRegistry empties the global registry. Tests only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
