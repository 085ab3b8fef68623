package appctx_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wssccc/appctx"
)

type chickenSvc struct{ egg *eggSvc }

type eggSvc struct{ chicken *chickenSvc }

func TestCircularDependency(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*chickenSvc](c, func(e *eggSvc) *chickenSvc {
		return &chickenSvc{egg: e}
	}, appctx.Named("chicken"))
	appctx.MustBean[*eggSvc](c, func(ch *chickenSvc) *eggSvc {
		return &eggSvc{chicken: ch}
	}, appctx.Named("egg"))

	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, appctx.IsCircularDependency(err))

	// The cycle is reported as the exact path, first bean repeated at
	// the end.
	assert.Equal(t, []string{"chicken", "egg", "chicken"}, appctx.CycleOf(err))

	// Both participants failed; neither made it into the store.
	failures := appctx.FailuresOf(err)
	require.Len(t, failures, 2)
	assert.Contains(t, failures, "chicken")
	assert.Contains(t, failures, "egg")
	assert.False(t, appctx.HasNamed(c, "chicken"))
	assert.False(t, appctx.HasNamed(c, "egg"))
}

func TestSelfDependency(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*chickenSvc](c, func(self *chickenSvc) *chickenSvc {
		return self
	}, appctx.Named("chicken"))

	err := c.Refresh()
	require.Error(t, err)
	assert.Equal(t, []string{"chicken", "chicken"}, appctx.CycleOf(err))
}

type repo struct{ name string }

type usesRepo struct{ r *repo }

func TestMissingDependency(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*usesRepo](c, func(r *repo) *usesRepo {
		return &usesRepo{r: r}
	}, appctx.Named("consumer"))

	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, appctx.IsMissingDependency(err))
	assert.Contains(t, appctx.FailuresOf(err), "consumer")
}

func TestAmbiguousDependency(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustValue(c, &repo{name: "primary"}, appctx.Named("primary"))
	appctx.MustValue(c, &repo{name: "replica"}, appctx.Named("replica"))
	appctx.MustBean[*usesRepo](c, func(r *repo) *usesRepo {
		return &usesRepo{r: r}
	}, appctx.Named("consumer"))

	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, appctx.IsAmbiguousBean(err))

	// Both candidates are named in the error.
	assert.ErrorContains(t, err, "primary")
	assert.ErrorContains(t, err, "replica")

	// Unique lookup fails the same way, while the plural lookup
	// returns both.
	_, lookupErr := appctx.BeanOf[*repo](c)
	assert.True(t, appctx.IsAmbiguousBean(lookupErr))
	assert.Len(t, appctx.BeansOf[*repo](c), 2)
	assert.Len(t, c.GetBeans(reflect.TypeOf((*repo)(nil))), 2)
}

func TestUntypedParameter(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustValue(c, &repo{}, appctx.Named("repo"))
	appctx.MustBean[*usesRepo](c, func(dep any) *usesRepo {
		return &usesRepo{r: dep.(*repo)}
	}, appctx.Named("consumer"))

	// An `any` parameter declares no usable type and cannot bind
	// positionally.
	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, appctx.IsMissingDependency(err))
}

func TestByName(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustValue(c, &repo{name: "primary"}, appctx.Named("primary"))
	appctx.MustValue(c, &repo{name: "replica"}, appctx.Named("replica"))
	appctx.MustBean[*usesRepo](c, func(r *repo) *usesRepo {
		return &usesRepo{r: r}
	}, appctx.Named("consumer"), appctx.Params(appctx.ByName("replica")))

	require.NoError(t, c.Refresh())

	got := appctx.MustNamedBeanOf[*usesRepo](c, "consumer")
	assert.Equal(t, "replica", got.r.name)
}

func TestByNameTypeMismatch(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustValue(c, "just a string", appctx.Named("repo"))
	appctx.MustBean[*usesRepo](c, func(r *repo) *usesRepo {
		return &usesRepo{r: r}
	}, appctx.Named("consumer"), appctx.Params(appctx.ByName("repo")))

	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, appctx.IsMissingDependency(err))
}

type worker struct {
	retries int
	queue   string
}

func TestByNameDefault(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*worker](c, func(retries int, queue string) *worker {
		return &worker{retries: retries, queue: queue}
	}, appctx.Named("worker"), appctx.Params(
		appctx.ByNameDefault("retries", 3),
		appctx.ByNameDefault("queue", "default"),
	))
	appctx.MustValue(c, "jobs", appctx.Named("queue"))

	require.NoError(t, c.Refresh())

	w := appctx.MustNamedBeanOf[*worker](c, "worker")
	assert.Equal(t, 3, w.retries)       // no bean named "retries", default applies
	assert.Equal(t, "jobs", w.queue)    // bean wins over the default
}

func TestByNameWithoutDefaultMissing(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*worker](c, func(retries int) *worker {
		return &worker{retries: retries}
	}, appctx.Named("worker"), appctx.Params(appctx.ByName("retries")))

	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, appctx.IsMissingDependency(err))
}

type collector struct {
	beans map[string]any
}

func TestCatchAll(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustValue(c, &repo{name: "a"}, appctx.Named("a"))
	appctx.MustValue(c, &repo{name: "b"}, appctx.Named("b"))
	appctx.MustValue(c, "hello", appctx.Named("c"))

	// A trailing map[string]any is the catch-all automatically.
	appctx.MustBean[*collector](c, func(rest map[string]any) *collector {
		return &collector{beans: rest}
	}, appctx.Named("collector"))

	require.NoError(t, c.Refresh())

	got := appctx.MustNamedBeanOf[*collector](c, "collector")
	require.Len(t, got.beans, 3)
	assert.Equal(t, "a", got.beans["a"].(*repo).name)
	assert.Equal(t, "b", got.beans["b"].(*repo).name)
	assert.Equal(t, "hello", got.beans["c"])
}

func TestCatchAllExcludesConsumed(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustValue(c, &repo{name: "main"}, appctx.Named("main"))
	appctx.MustValue(c, "extra", appctx.Named("extra"))

	appctx.MustBean[*collector](c, func(r *repo, rest map[string]any) *collector {
		return &collector{beans: rest}
	}, appctx.Named("collector"))

	require.NoError(t, c.Refresh())

	got := appctx.MustNamedBeanOf[*collector](c, "collector")
	require.Len(t, got.beans, 1)
	assert.Equal(t, "extra", got.beans["extra"])
	assert.NotContains(t, got.beans, "main")      // consumed positionally
	assert.NotContains(t, got.beans, "collector") // never itself
}

func TestCatchAllEmptyRegistry(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*collector](c, func(rest map[string]any) *collector {
		return &collector{beans: rest}
	}, appctx.Named("collector"))

	require.NoError(t, c.Refresh())
	assert.Empty(t, appctx.MustNamedBeanOf[*collector](c, "collector").beans)
}

func TestConstructionFailureIsContained(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustValue(c, &repo{name: "ok"}, appctx.Named("healthy"))
	appctx.MustBean[*worker](c, func() (*worker, error) {
		return nil, errors.New("no database")
	}, appctx.Named("broken"))
	appctx.MustBean[*usesWorker](c, func(w *worker) *usesWorker {
		return &usesWorker{w: w}
	}, appctx.Named("dependent"))

	err := c.Refresh()
	require.Error(t, err)

	failures := appctx.FailuresOf(err)
	require.Len(t, failures, 2)
	assert.True(t, appctx.IsConstructionFailed(failures["broken"]))
	assert.True(t, appctx.IsMissingDependency(failures["dependent"]))

	// The healthy sibling resolved and stays retrievable.
	healthy, lookupErr := appctx.NamedBeanOf[*repo](c, "healthy")
	require.NoError(t, lookupErr)
	assert.Equal(t, "ok", healthy.name)
	assert.False(t, appctx.HasNamed(c, "broken"))
	assert.False(t, appctx.HasNamed(c, "dependent"))
}

type usesWorker struct{ w *worker }

func TestFactoryPanicIsContained(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*worker](c, func() *worker {
		panic("boom")
	}, appctx.Named("panicky"))

	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, appctx.IsConstructionFailed(err))
	assert.ErrorContains(t, err, "boom")
}

func TestRefreshAfterFailureRecovers(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	attempts := 0
	appctx.MustBean[*worker](c, func() (*worker, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient")
		}
		return &worker{retries: attempts}, nil
	}, appctx.Named("flaky"))

	require.Error(t, c.Refresh())
	require.NoError(t, c.Refresh())

	assert.Equal(t, 2, appctx.MustNamedBeanOf[*worker](c, "flaky").retries)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("clean registry", func(t *testing.T) {
		t.Parallel()

		c := appctx.New()
		appctx.MustValue(c, &repo{}, appctx.Named("repo"))
		appctx.MustBean[*usesRepo](c, func(r *repo) *usesRepo {
			return &usesRepo{r: r}
		}, appctx.Named("consumer"))

		assert.NoError(t, c.Validate())
	})

	t.Run("reports missing and cycle together", func(t *testing.T) {
		t.Parallel()

		c := appctx.New()
		appctx.MustBean[*usesRepo](c, func(r *repo) *usesRepo {
			return &usesRepo{r: r}
		}, appctx.Named("orphan"))
		appctx.MustBean[*chickenSvc](c, func(e *eggSvc) *chickenSvc {
			return &chickenSvc{egg: e}
		}, appctx.Named("chicken"))
		appctx.MustBean[*eggSvc](c, func(ch *chickenSvc) *eggSvc {
			return &eggSvc{chicken: ch}
		}, appctx.Named("egg"))

		err := c.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, "orphan")
		assert.ErrorContains(t, err, "chicken")

		// Nothing got constructed.
		assert.False(t, appctx.HasNamed(c, "orphan"))
	})
}

type hub struct {
	beans map[string]any
}

type hubClient struct{ h *hub }

type hubRelay struct{ c *hubClient }

func TestCatchAllOwnerWithDependent(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	// The catch-all owner comes first, so its speculative builds run
	// while it is still under construction. A bean depending on the
	// owner is no cycle; both must construct.
	appctx.MustBean[*hub](c, func(rest map[string]any) *hub {
		return &hub{beans: rest}
	}, appctx.Named("hub"))
	appctx.MustBean[*hubClient](c, func(h *hub) *hubClient {
		return &hubClient{h: h}
	}, appctx.Named("client"))

	require.NoError(t, c.Validate())
	require.NoError(t, c.Refresh())

	h := appctx.MustNamedBeanOf[*hub](c, "hub")
	client := appctx.MustNamedBeanOf[*hubClient](c, "client")
	assert.Same(t, h, client.h)

	// The client was still waiting on the owner when the map was
	// assembled, so it is not in it.
	assert.NotContains(t, h.beans, "client")
}

func TestCatchAllOwnerWithDependentChain(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*hub](c, func(rest map[string]any) *hub {
		return &hub{beans: rest}
	}, appctx.Named("hub"))
	appctx.MustBean[*hubClient](c, func(h *hub) *hubClient {
		return &hubClient{h: h}
	}, appctx.Named("client"))
	appctx.MustBean[*hubRelay](c, func(cl *hubClient) *hubRelay {
		return &hubRelay{c: cl}
	}, appctx.Named("relay"))

	require.NoError(t, c.Refresh())

	relay := appctx.MustNamedBeanOf[*hubRelay](c, "relay")
	assert.Same(t, appctx.MustNamedBeanOf[*hub](c, "hub"), relay.c.h)
	assert.True(t, appctx.HasNamed(c, "client"))
}

func TestCatchAllStillReportsDeclaredCycles(t *testing.T) {
	t.Parallel()

	c := appctx.New()

	appctx.MustBean[*hub](c, func(rest map[string]any) *hub {
		return &hub{beans: rest}
	}, appctx.Named("hub"))
	appctx.MustBean[*chickenSvc](c, func(e *eggSvc) *chickenSvc {
		return &chickenSvc{egg: e}
	}, appctx.Named("chicken"))
	appctx.MustBean[*eggSvc](c, func(ch *chickenSvc) *eggSvc {
		return &eggSvc{chicken: ch}
	}, appctx.Named("egg"))

	// A declared cycle behind the catch-all stays a failure; only the
	// owner itself constructs.
	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, appctx.IsCircularDependency(err))
	assert.Len(t, appctx.FailuresOf(err), 2)
	assert.True(t, appctx.HasNamed(c, "hub"))
	assert.Empty(t, appctx.MustNamedBeanOf[*hub](c, "hub").beans)
}

func TestResolutionIsDeterministic(t *testing.T) {
	t.Parallel()

	// Same registrations, same order, several times over: the set of
	// constructed beans and the failure set never change.
	for i := 0; i < 5; i++ {
		c := appctx.New()

		appctx.MustValue(c, &repo{name: "r"}, appctx.Named("repo"))
		appctx.MustBean[*usesRepo](c, func(r *repo) *usesRepo {
			return &usesRepo{r: r}
		}, appctx.Named("consumer"))
		appctx.MustBean[*worker](c, func() (*worker, error) {
			return nil, errors.New("always fails")
		}, appctx.Named("broken"))

		err := c.Refresh()
		require.Error(t, err)

		failures := appctx.FailuresOf(err)
		require.Len(t, failures, 1)
		assert.Contains(t, failures, "broken")
		assert.True(t, appctx.HasNamed(c, "repo"))
		assert.True(t, appctx.HasNamed(c, "consumer"))
	}
}
