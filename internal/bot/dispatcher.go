package bot

import (
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/bot/handlers"
)

// Dispatcher routes each inbound update through two ordered groups: the
// intercept group runs first and may consume the update, then the primary
// group matches one handler by command, exact button label, callback-data
// prefix, or media kind. Unmatched updates are dropped silently.
type Dispatcher struct {
	mu           sync.RWMutex
	interceptors []handlers.Interceptor
	commands     map[string]handlers.Handler
	buttons      map[string]handlers.Handler
	callbacks    []callbackRoute
	voice        handlers.Handler
	photo        handlers.Handler
	middlewares  []handlers.Middleware
	log          *slog.Logger
}

type callbackRoute struct {
	prefix  string
	handler handlers.Handler
}

// NewDispatcher creates a Dispatcher with empty registries.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		commands: make(map[string]handlers.Handler),
		buttons:  make(map[string]handlers.Handler),
		log:      log,
	}
}

// Use appends a middleware; it wraps whichever handler ends up running.
func (d *Dispatcher) Use(mw handlers.Middleware) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middlewares = append(d.middlewares, mw)
}

// Intercept appends an interceptor to the intercept group. Interceptors
// run in registration order for every message update.
func (d *Dispatcher) Intercept(i handlers.Interceptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interceptors = append(d.interceptors, i)
}

// Command registers a primary handler for a command like "/start".
func (d *Dispatcher) Command(cmd string, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands[cmd] = h
}

// Button registers a primary handler matched by exact message text.
func (d *Dispatcher) Button(label string, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttons[label] = h
}

// Callback registers a primary handler for callback data with the given
// prefix. First registered matching prefix wins.
func (d *Dispatcher) Callback(prefix string, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = append(d.callbacks, callbackRoute{prefix: prefix, handler: h})
}

// Voice registers the primary handler for voice and audio messages.
func (d *Dispatcher) Voice(h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.voice = h
}

// Photo registers the primary handler for photo messages.
func (d *Dispatcher) Photo(h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.photo = h
}

// Dispatch routes one update. Handler execution is one-shot; there are no
// dispatcher-level retries.
func (d *Dispatcher) Dispatch(c telebot.Context) error {
	if c == nil {
		return nil
	}

	return d.execute(d.route, c)
}

func (d *Dispatcher) route(c telebot.Context) error {
	if callback := c.Callback(); callback != nil {
		return d.routeCallback(c, callback.Data)
	}

	consumed, err := d.runInterceptors(c)
	if err != nil {
		return err
	}
	if consumed {
		return nil
	}

	return d.routePrimary(c)
}

// runInterceptors executes the intercept group in order; the first
// interceptor that consumes the update short-circuits the rest of the
// pipeline.
func (d *Dispatcher) runInterceptors(c telebot.Context) (bool, error) {
	d.mu.RLock()
	interceptors := make([]handlers.Interceptor, len(d.interceptors))
	copy(interceptors, d.interceptors)
	d.mu.RUnlock()

	for _, intercept := range interceptors {
		consumed, err := intercept(c)
		if err != nil {
			return true, err
		}
		if consumed {
			return true, nil
		}
	}

	return false, nil
}

func (d *Dispatcher) routePrimary(c telebot.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}

	switch {
	case msg.Voice != nil || msg.Audio != nil:
		if h := d.voiceHandler(); h != nil {
			return h(c)
		}
	case msg.Photo != nil:
		if h := d.photoHandler(); h != nil {
			return h(c)
		}
	default:
		text := c.Text()
		if strings.HasPrefix(text, "/") {
			if h := d.commandHandler(text); h != nil {
				return h(c)
			}
		} else if h := d.buttonHandler(text); h != nil {
			return h(c)
		}
	}

	d.log.Debug("no primary handler matched, dropping update")
	return nil
}

func (d *Dispatcher) routeCallback(c telebot.Context, data string) error {
	data = strings.TrimPrefix(data, "\f")

	d.mu.RLock()
	routes := make([]callbackRoute, len(d.callbacks))
	copy(routes, d.callbacks)
	d.mu.RUnlock()

	for _, route := range routes {
		if strings.HasPrefix(data, route.prefix) {
			return route.handler(c)
		}
	}

	d.log.Debug("no callback handler matched", slog.String("data", data))
	return nil
}

// commandHandler matches on the first token so commands with arguments
// like "/confirm 42 10000" resolve to their registered handler.
func (d *Dispatcher) commandHandler(text string) handlers.Handler {
	name := text
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	// strip the bot mention from "/start@sedabot"
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.commands[name]
}

func (d *Dispatcher) buttonHandler(label string) handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buttons[label]
}

func (d *Dispatcher) voiceHandler() handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.voice
}

func (d *Dispatcher) photoHandler() handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.photo
}

// execute wraps fn with the registered middlewares and runs it.
func (d *Dispatcher) execute(fn handlers.Handler, c telebot.Context) error {
	d.mu.RLock()
	middlewares := make([]handlers.Middleware, len(d.middlewares))
	copy(middlewares, d.middlewares)
	d.mu.RUnlock()

	wrapped := fn
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped(c)
}
