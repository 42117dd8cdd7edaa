package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/storage"
)

const (
	colorTasks = 0x5865F2

	timeoutMessage = "Timed out waiting for the new description."
	invalidDate    = "Invalid date. Use a real calendar day, for example `14 3 2026`."
)

// Store persists tasks owned by users.
type Store interface {
	Add(ctx context.Context, userID snowflake.ID, username, description string, date time.Time) (*storage.Task, error)
	ListByDate(ctx context.Context, userID snowflake.ID, date time.Time) ([]storage.Task, error)
	Get(ctx context.Context, userID snowflake.ID, id int64) (*storage.Task, error)
	UpdateStatus(ctx context.Context, userID snowflake.ID, id int64, status storage.TaskStatus) error
	UpdateDescription(ctx context.Context, userID snowflake.ID, id int64, description string) error
	Remove(ctx context.Context, userID snowflake.ID, id int64) error
}

// Waiter returns the next message a user posts in a channel.
type Waiter interface {
	Wait(ctx context.Context, channelID, userID snowflake.ID, timeout time.Duration) (string, error)
}

// Compile-time interface checks.
var (
	_ Store  = (*storage.TaskRepository)(nil)
	_ Waiter = (*MessageWaiter)(nil)
)

// Handler handles the task command.
type Handler struct {
	store       Store
	waiter      Waiter
	editTimeout time.Duration
	now         func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(store Store, waiter Waiter, editTimeout time.Duration) *Handler {
	return &Handler{
		store:       store,
		waiter:      waiter,
		editTimeout: editTimeout,
		now:         time.Now,
	}
}

// Command returns the task command definition.
func Command() *discordgo.ApplicationCommand {
	statuses := make([]*discordgo.ApplicationCommandOptionChoice, len(storage.TaskStatuses))
	for i, status := range storage.TaskStatuses {
		statuses[i] = &discordgo.ApplicationCommandOptionChoice{Name: string(status), Value: string(status)}
	}

	taskID := func(description string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: description,
			Required:    true,
		}
	}

	return &discordgo.ApplicationCommand{
		Name:        "task",
		Description: "Keep a personal list of tasks",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a task for today",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "task",
						Description: "The task to add",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List your tasks for a day (default: today)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "day", Description: "Day of the month"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "month", Description: "Month (1-12)"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "year", Description: "Year"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "update",
				Description: "Change the status of a task",
				Options: []*discordgo.ApplicationCommandOption{
					taskID("ID of the task to update"),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "status",
						Description: "New status",
						Required:    true,
						Choices:     statuses,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a task",
				Options:     []*discordgo.ApplicationCommandOption{taskID("ID of the task to remove")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "edit",
				Description: "Replace the description of a task",
				Options:     []*discordgo.ApplicationCommandOption{taskID("ID of the task to edit")},
			},
		},
	}
}

// Handle routes a task subcommand.
func (h *Handler) Handle(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	switch inv.Subcommand {
	case "add":
		return h.handleAdd(inv, r)
	case "list":
		return h.handleList(inv, r)
	case "update":
		return h.handleUpdate(inv, r)
	case "remove":
		return h.handleRemove(inv, r)
	case "edit":
		return h.handleEdit(inv, r)
	default:
		return r.Reply(&bot.Reply{
			Content:   "Unknown subcommand. Use one of add, list, update, remove, edit.",
			Ephemeral: true,
		})
	}
}

func (h *Handler) handleAdd(inv *bot.Invocation, r bot.Responder) error {
	description := strings.TrimSpace(inv.String("task"))
	if description == "" {
		return r.Reply(&bot.Reply{Content: "Task cannot be empty.", Ephemeral: true})
	}

	task, err := h.store.Add(context.Background(), inv.UserID, inv.Username, description, h.now())
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	slog.Debug("added task", "user", inv.UserID, "task", task.ID)
	return r.Reply(&bot.Reply{
		Content: fmt.Sprintf("Task **#%d** added for %s: %s", task.ID, task.Date, task.Description),
	})
}

func (h *Handler) handleList(inv *bot.Invocation, r bot.Responder) error {
	date, err := h.listDate(inv)
	if err != nil {
		return r.Reply(&bot.Reply{Content: invalidDate, Ephemeral: true})
	}

	tasks, err := h.store.ListByDate(context.Background(), inv.UserID, date)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	day := date.Format(storage.DateLayout)
	if len(tasks) == 0 {
		return r.Reply(&bot.Reply{Content: fmt.Sprintf("You have no tasks for %s.", day)})
	}

	return r.Reply(&bot.Reply{Embeds: []*discordgo.MessageEmbed{listEmbed(day, tasks)}})
}

// listDate resolves the requested day, defaulting each part to today.
// Out-of-range parts such as February 30th are rejected, not normalized.
func (h *Handler) listDate(inv *bot.Invocation) (time.Time, error) {
	today := h.now()

	day, err := inv.Int("day", int64(today.Day()))
	if err != nil {
		return time.Time{}, err
	}
	month, err := inv.Int("month", int64(today.Month()))
	if err != nil {
		return time.Time{}, err
	}
	year, err := inv.Int("year", int64(today.Year()))
	if err != nil {
		return time.Time{}, err
	}

	date := time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, today.Location())
	if date.Year() != int(year) || date.Month() != time.Month(month) || date.Day() != int(day) {
		return time.Time{}, fmt.Errorf("%w: %d-%d-%d is not a date", bot.ErrInvalidOption, year, month, day)
	}
	return date, nil
}

func listEmbed(day string, tasks []storage.Task) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, task := range tasks {
		fmt.Fprintf(&b, "`#%d` %s %s\n", task.ID, statusLabel(task.Status), task.Description)
	}

	return &discordgo.MessageEmbed{
		Title:       "Tasks for " + day,
		Description: b.String(),
		Color:       colorTasks,
	}
}

func statusLabel(status storage.TaskStatus) string {
	switch status {
	case storage.TaskStatusWorkingOnIt:
		return "[working on it]"
	case storage.TaskStatusCompleted:
		return "[completed]"
	default:
		return "[to-do]"
	}
}

func (h *Handler) handleUpdate(inv *bot.Invocation, r bot.Responder) error {
	id, ok, err := h.taskID(inv, r)
	if !ok {
		return err
	}

	status, err := storage.ParseTaskStatus(inv.String("status"))
	if err != nil {
		return r.Reply(&bot.Reply{Content: statusHelp(), Ephemeral: true})
	}

	err = h.store.UpdateStatus(context.Background(), inv.UserID, id, status)
	if errors.Is(err, storage.ErrTaskNotFound) {
		return r.Reply(notFoundReply(id))
	}
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	return r.Reply(&bot.Reply{Content: fmt.Sprintf("Task **#%d** marked as **%s**.", id, status)})
}

func statusHelp() string {
	names := make([]string, len(storage.TaskStatuses))
	for i, status := range storage.TaskStatuses {
		names[i] = string(status)
	}
	return "Invalid status! Please choose from " + strings.Join(names, ", ")
}

func (h *Handler) handleRemove(inv *bot.Invocation, r bot.Responder) error {
	id, ok, err := h.taskID(inv, r)
	if !ok {
		return err
	}

	err = h.store.Remove(context.Background(), inv.UserID, id)
	if errors.Is(err, storage.ErrTaskNotFound) {
		return r.Reply(notFoundReply(id))
	}
	if err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}

	return r.Reply(&bot.Reply{Content: fmt.Sprintf("Task **#%d** removed.", id)})
}

// handleEdit asks for a new description and takes it from the user's next
// message in the channel.
func (h *Handler) handleEdit(inv *bot.Invocation, r bot.Responder) error {
	id, ok, err := h.taskID(inv, r)
	if !ok {
		return err
	}

	ctx := context.Background()
	task, err := h.store.Get(ctx, inv.UserID, id)
	if errors.Is(err, storage.ErrTaskNotFound) {
		return r.Reply(notFoundReply(id))
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	err = r.Reply(&bot.Reply{
		Content: fmt.Sprintf("Editing task **#%d**: %s\nSend the new description in this channel within %s.",
			task.ID, task.Description, h.editTimeout),
	})
	if err != nil {
		return err
	}

	description, err := h.waiter.Wait(ctx, inv.ChannelID, inv.UserID, h.editTimeout)
	if errors.Is(err, ErrWaitTimeout) {
		return r.Reply(&bot.Reply{Content: timeoutMessage})
	}
	if errors.Is(err, ErrAlreadyWaiting) {
		return r.Reply(&bot.Reply{Content: "Finish your current edit first.", Ephemeral: true})
	}
	if err != nil {
		return fmt.Errorf("failed to wait for description: %w", err)
	}

	err = h.store.UpdateDescription(ctx, inv.UserID, id, description)
	if errors.Is(err, storage.ErrTaskNotFound) {
		// Removed while we were waiting.
		return r.Reply(notFoundReply(id))
	}
	if err != nil {
		return fmt.Errorf("failed to update task description: %w", err)
	}

	return r.Reply(&bot.Reply{Content: fmt.Sprintf("Task **#%d** updated: %s", id, description)})
}

// taskID reads the id option. When it is unusable the user has already been
// answered and ok is false.
func (h *Handler) taskID(inv *bot.Invocation, r bot.Responder) (id int64, ok bool, err error) {
	id, err = inv.Int("id", 0)
	if err != nil || id <= 0 {
		return 0, false, r.Reply(&bot.Reply{Content: "Task ID must be a positive whole number.", Ephemeral: true})
	}
	return id, true, nil
}

func notFoundReply(id int64) *bot.Reply {
	return &bot.Reply{
		Content:   fmt.Sprintf("Task **#%d** was not found among your tasks.", id),
		Ephemeral: true,
	}
}
