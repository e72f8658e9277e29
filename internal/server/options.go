package server

import (
	"log/slog"
	"net/http"

	"github.com/goliatone/go-userform/pkg/render"
)

// GuardFunc authorizes mutating requests. A returned error implementing
// HTTPError selects the response status; anything else maps to 403.
type GuardFunc func(r *http.Request) error

type Options struct {
	APIPath  string
	FormPath string
	DocPath  string
	// MaxBodyBytes caps JSON and form request bodies.
	MaxBodyBytes int64
	Guard        GuardFunc
	Logger       *slog.Logger
	// Renderer renders the form page; the html renderer by default.
	Renderer render.Renderer
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		APIPath:      "/users",
		FormPath:     "/form",
		DocPath:      "/openapi.json",
		MaxBodyBytes: 1 << 20,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.APIPath == "" {
		opts.APIPath = "/users"
	}
	if opts.FormPath == "" {
		opts.FormPath = "/form"
	}
	if opts.DocPath == "" {
		opts.DocPath = "/openapi.json"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	return opts
}

func WithAPIPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.APIPath = path
	}
}

func WithFormPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormPath = path
	}
}

func WithDocPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DocPath = path
	}
}

func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = n
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}
