package handlers

import (
	telebot "gopkg.in/telebot.v3"
)

// Handler processes a routed update.
type Handler func(c telebot.Context) error

// Interceptor runs before primary routing. Returning consumed=true stops
// the dispatcher from running any primary handler for this update.
type Interceptor func(c telebot.Context) (consumed bool, err error)

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler
