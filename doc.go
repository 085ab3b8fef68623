// Package appctx provides a Spring-style dependency injection
// container for Go: beans are registered as factories, pre-built
// values, or constructible structs, auto-wired by type and by name,
// and constructed as singletons during a single Refresh pass.
//
// # Quick Start
//
// Register factories and refresh the context:
//
//	c := appctx.New()
//
//	appctx.MustBean[*Config](c, func() *Config {
//	    return &Config{Port: 8080}
//	})
//	appctx.MustBean[*Server](c, func(cfg *Config) *Server {
//	    return &Server{config: cfg}
//	})
//
//	if err := c.Refresh(); err != nil {
//	    log.Fatal(err)
//	}
//	srv := appctx.MustBeanOf[*Server](c)
//
// # Registration
//
// Factories take their dependencies as parameters and return the bean,
// optionally with an error:
//
//	appctx.Bean[*Store](c, NewStore)              // func(deps...) (*Store, error)
//	appctx.Value(c, &Config{Port: 8080})          // pre-built singleton
//	appctx.Struct[*Handlers](c)                   // built from tagged fields
//
// Bean names default to the factory's function name (or the type name
// for values and structs); override with appctx.Named("primary").
//
// # Auto-Wiring
//
// Every factory parameter binds by type: exactly one registered bean
// must produce a matching type, counting exact and interface matches
// alike. Zero candidates fail as a missing dependency, several as an
// ambiguity — the parameter never falls back to name matching.
//
// Parameters can bind differently with explicit specs, one per
// parameter:
//
//	appctx.Bean[*Worker](c, NewWorker, appctx.Params(
//	    appctx.ByType(),                         // unique type match
//	    appctx.ByName("jobQueue"),               // bean registered under the name
//	    appctx.ByNameDefault("retries", 3),      // fall back to a default
//	    appctx.Rest(),                           // map[string]any of the remaining beans
//	))
//
// A trailing map[string]any parameter is treated as the catch-all
// automatically: it receives every bean not consumed by another
// parameter of the same factory, keyed by bean name.
//
// Struct beans wire tagged fields the same way:
//
//	type Handlers struct {
//	    Store *Store  `appctx:""`               // by type
//	    Log   *Logger `appctx:"appLogger"`      // by name
//	    Cache *Cache  `appctx:"cache,optional"` // zero when absent
//	}
//	appctx.Struct[*Handlers](c)
//
// # Refresh
//
// Refresh builds the whole registry eagerly, in registration order,
// constructing each bean's transitive dependencies first and detecting
// cycles on the build stack. Failures are contained to the failing
// bean: siblings still resolve, dependents fail with a missing
// dependency, and the returned *RefreshError carries every per-bean
// failure so all problems surface in one pass.
//
// Validate performs the same structural checks without constructing
// anything.
//
// # Lookup
//
//	v, err := appctx.BeanOf[*Store](c)          // by type, unique
//	v, err := appctx.NamedBeanOf[*Store](c, "primary")
//	all := appctx.BeansOf[Repository](c)        // subtype-inclusive, may be empty
//	v, err := c.GetBean("primary")              // name or reflect.Type key
//
// Lookups are read-only after Refresh and safe for concurrent readers.
// The engine does no locking against concurrent Register or Refresh;
// that coordination belongs to the caller.
//
// # Lifecycle
//
// Post-construct hooks run after the whole registry is built, in bean
// registration order, either declared by name or via the interface:
//
//	appctx.Bean[*Client](c, NewClient, appctx.PostConstruct("Connect"))
//
//	func (c *Client) PostConstruct() error { return c.dial() } // opt-in interface
//
// A failing hook removes its bean from the store; references captured
// by other beans during construction are not rolled back.
//
// Pre-destroy hooks mirror this on Close, in reverse registration
// order:
//
//	appctx.Bean[*Client](c, NewClient, appctx.PreDestroy("Disconnect"))
//	defer c.Close(context.Background())
//
// # Modules
//
// Group registrations for larger composition roots:
//
//	var StorageModule = appctx.NewModule("storage")
//	appctx.ModuleBean[*Store](StorageModule, NewStore)
//
//	c.Apply(StorageModule, HTTPModule)
//
// # Observability
//
// Wire observers for metrics integration:
//
//	c := appctx.New(
//	    appctx.WithResolveObserver(func(bean string, d time.Duration, err error) {
//	        metrics.RecordResolve(bean, d, err)
//	    }),
//	)
//
// Beans implementing HealthChecker participate in c.Live(ctx) and
// c.Health(ctx). PrintGraph and FprintGraphDOT render the reference
// graph for debugging.
package appctx
