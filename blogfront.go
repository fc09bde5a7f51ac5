// Package blogfront is the server side of a content-driven blog: post and
// tag pages, sitemap.xml, an RSS feed, deterministic banner and author
// images, and an IndexNow trigger that announces the sitemap to search
// engines.
//
// Users provide their own templ components via the ViewFuncs struct (the
// views package has defaults), and blogfront handles routing, caching and
// the SQLite post store.
package blogfront

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/blogfront/indexnow"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home        func(cfg SiteConfig, posts []BlogPost) templ.Component
	Blog        func(cfg SiteConfig, posts []BlogPost, tags []TagCount) templ.Component
	Post        func(cfg SiteConfig, page PostPage) templ.Component
	Tags        func(cfg SiteConfig, tags []TagCount) templ.Component
	TagPosts    func(cfg SiteConfig, tag TagCount, posts []BlogPost) templ.Component
	About       func(cfg SiteConfig) templ.Component
	NotFound    func(cfg SiteConfig) templ.Component
	ServerError func(cfg SiteConfig) templ.Component
}

func (v ViewFuncs) validate() error {
	missing := ""
	switch {
	case v.Home == nil:
		missing = "Home"
	case v.Blog == nil:
		missing = "Blog"
	case v.Post == nil:
		missing = "Post"
	case v.Tags == nil:
		missing = "Tags"
	case v.TagPosts == nil:
		missing = "TagPosts"
	case v.About == nil:
		missing = "About"
	case v.NotFound == nil:
		missing = "NotFound"
	case v.ServerError == nil:
		missing = "ServerError"
	}
	if missing != "" {
		return fmt.Errorf("blogfront: Views.%s is required", missing)
	}
	return nil
}

// HomePostCount is the number of posts listed on the home page.
const HomePostCount = 5

// App is the central blogfront application. It wires together the store,
// cache, submitter, handlers, middleware, and user-provided templates.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Store     *Store
	Cache     *PostCache
	Views     ViewFuncs
	Submitter *indexnow.Submitter

	limiter       *TriggerLimiter
	customRoutes  []func(*App)
	ownsStore     bool
	indexNowDelay time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
	now           func() time.Time
}

// New creates a new blogfront App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:        cfg,
		Echo:          echo.New(),
		Views:         views,
		indexNowDelay: 5 * time.Second,
		stopCh:        make(chan struct{}),
		now:           time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the store and registers middleware, routes and the periodic
// IndexNow loop. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Setup() error {
	if err := a.Views.validate(); err != nil {
		return err
	}
	if err := a.Config.Assets.Validate(); err != nil {
		return fmt.Errorf("blogfront: assets: %w", err)
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("blogfront: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)

	if a.Submitter == nil {
		a.Submitter = indexnow.New(a.Config.PublicDir,
			indexnow.WithEndpoint(a.Config.IndexNow.Endpoint),
			indexnow.WithHTTPClient(&http.Client{Timeout: a.Config.IndexNow.Timeout}),
			indexnow.WithLogger(a.Echo.Logger),
		)
	}
	if a.Config.IndexNow.TriggerLimit > 0 {
		a.limiter = NewTriggerLimiter(a.Config.IndexNow.TriggerLimit, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.startIndexNowLoop()
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Public directory: banners, author images, robots.txt and the
	// IndexNow key file, all served from the site root.
	e.Static("/", a.Config.PublicDir)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/:slug", a.handlePost)
	e.GET("/tags", a.handleTags)
	e.GET("/tags/:tag", a.handleTag)
	e.GET("/about", a.handleAbout)

	trigger := indexnow.Handler(a.Submitter)
	var mw []echo.MiddlewareFunc
	if a.limiter != nil {
		mw = append(mw, a.limiter.Middleware)
	}
	e.GET("/api/get_indexnow", trigger, mw...)
	e.POST("/api/get_indexnow", trigger, mw...)
}

// Shutdown stops the server gracefully and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close stops background work and closes the store if the App opened it.
func (a *App) Close() error {
	a.stopOnce.Do(func() { close(a.stopCh) })
	a.wg.Wait()
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
