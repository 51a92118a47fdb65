package service_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/rmnd/internal/apperr"
	"github.com/go-ports/rmnd/internal/models"
	"github.com/go-ports/rmnd/internal/service"
	"github.com/go-ports/rmnd/internal/store"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type env struct {
	svc  *service.Service
	root string // canonical workspace root for project directories
}

func newEnv(c *qt.C) *env {
	c.TB.Helper()
	base, err := filepath.EvalSymlinks(c.TB.TempDir())
	c.Assert(err, qt.IsNil)

	svc, err := service.New(filepath.Join(base, "config"))
	c.Assert(err, qt.IsNil)

	root := filepath.Join(base, "work")
	c.Assert(os.MkdirAll(root, 0o755), qt.IsNil)
	return &env{svc: svc, root: root}
}

// dir creates and returns a directory below the workspace root.
func (e *env) dir(c *qt.C, rel string) string {
	p := filepath.Join(e.root, rel)
	c.Assert(os.MkdirAll(p, 0o755), qt.IsNil)
	return p
}

// initAt registers a default local config in rel and returns its path.
func (e *env) initAt(c *qt.C, rel string) string {
	res, err := e.svc.RegisterLocal(e.dir(c, rel), nil)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Status, qt.Equals, service.InitCreated)
	return res.Path
}

func (e *env) global(c *qt.C) *models.ConfigFile {
	g, err := e.svc.Global()
	c.Assert(err, qt.IsNil)
	return g
}

func allow(string) (service.Decision, error) { return service.Allow, nil }
func deny(string) (service.Decision, error)  { return service.Deny, nil }

func texts(sum *models.ConfigSum) []string {
	out := make([]string, 0, len(sum.Reminders))
	for _, r := range sum.Reminders {
		out = append(out, r.Text)
	}
	return out
}

func readFile(c *qt.C, path string) string {
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	return string(data)
}

// ---------------------------------------------------------------------------
// AggregateLocal
// ---------------------------------------------------------------------------

func TestAggregateLocal_ScopeFromSubdirectory(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	proj := e.initAt(c, "proj")
	sub := e.dir(c, "proj/sub")

	_, err := e.svc.AddReminder(service.ScopeLocal, sub, "from the project", "Critical", "")
	c.Assert(err, qt.IsNil)

	sum, err := e.svc.AggregateLocal(sub)
	c.Assert(err, qt.IsNil)
	c.Assert(texts(sum), qt.DeepEquals, []string{
		"This is a local critical reminder!",
		"from the project",
		"This is a global critical reminder!",
	})
	c.Assert(sum.Reminders[0].Path, qt.Equals, proj)
	c.Assert(sum.Reminders[1].Index, qt.Equals, 2)
	c.Assert(sum.Reminders[2].Path, qt.Equals, e.global(c).Path)
	c.Assert(sum.Priorities, qt.DeepEquals, e.global(c).Priorities)
}

func TestAggregateLocal_OrderAndExclusion(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	outer := e.initAt(c, "outer")
	e.initAt(c, "elsewhere")
	inner := e.initAt(c, "outer/inner")
	cwd := e.dir(c, "outer/inner/leaf")

	sum, err := e.svc.AggregateLocal(cwd)
	c.Assert(err, qt.IsNil)

	groups := sum.Groups()
	c.Assert(groups, qt.HasLen, 3)
	c.Assert(groups[0].Path, qt.Equals, outer)
	c.Assert(groups[1].Path, qt.Equals, inner)
	c.Assert(groups[2].Path, qt.Equals, e.global(c).Path)
}

func TestAggregateLocal_OutsideEveryScopeShowsGlobalOnly(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	e.initAt(c, "proj")

	sum, err := e.svc.AggregateLocal(e.dir(c, "unrelated"))
	c.Assert(err, qt.IsNil)
	c.Assert(texts(sum), qt.DeepEquals, []string{"This is a global critical reminder!"})
}

func TestAggregateLocal_IncludesUnregisteredFileInWorkingDirectory(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	dir := e.dir(c, "loose")
	path := filepath.Join(dir, "rmnd.toml")
	c.Assert(store.Create(path, models.DefaultLocal()), qt.IsNil)

	sum, err := e.svc.AggregateLocal(dir)
	c.Assert(err, qt.IsNil)
	c.Assert(sum.Reminders, qt.HasLen, 2)
	c.Assert(sum.Reminders[0].Path, qt.Equals, path)
}

func TestAggregateLocal_DuplicateRegistrationListedOnce(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	proj := e.initAt(c, "proj")

	g := e.global(c)
	g.ConfigPaths = append(g.ConfigPaths, proj)
	c.Assert(store.Persist(g), qt.IsNil)

	sum, err := e.svc.AggregateLocal(filepath.Dir(proj))
	c.Assert(err, qt.IsNil)
	c.Assert(sum.Reminders, qt.HasLen, 2)
}

func TestAggregateLocal_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("corrupt local config aborts the aggregation", func(c *qt.C) {
		e := newEnv(c)
		proj := e.initAt(c, "proj")
		c.Assert(os.WriteFile(proj, []byte("not = [valid"), 0o644), qt.IsNil)

		_, err := e.svc.AggregateLocal(filepath.Dir(proj))
		c.Assert(err, qt.ErrorIs, apperr.ErrCorruptConfig)
	})

	c.Run("dangling registration aborts the aggregation", func(c *qt.C) {
		e := newEnv(c)
		proj := e.initAt(c, "proj")
		c.Assert(os.Remove(proj), qt.IsNil)

		_, err := e.svc.AggregateLocal(filepath.Dir(proj))
		c.Assert(err, qt.ErrorIs, apperr.ErrIO)
	})
}

// ---------------------------------------------------------------------------
// AggregateAll
// ---------------------------------------------------------------------------

func TestAggregateAll_IgnoresWorkingDirectory(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	a := e.initAt(c, "a")
	b := e.initAt(c, "b")

	sum, err := e.svc.AggregateAll()
	c.Assert(err, qt.IsNil)

	groups := sum.Groups()
	c.Assert(groups, qt.HasLen, 3)
	c.Assert(groups[0].Path, qt.Equals, a)
	c.Assert(groups[1].Path, qt.Equals, b)
	c.Assert(groups[2].Path, qt.Equals, e.global(c).Path)
}

func TestAggregateAll_DanglingRegistrationIsFatal(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	g := e.global(c)
	g.ConfigPaths = []string{filepath.Join(e.root, "missing", "rmnd.toml")}
	c.Assert(store.Persist(g), qt.IsNil)

	_, err := e.svc.AggregateAll()
	c.Assert(err, qt.ErrorIs, apperr.ErrIO)
}

// ---------------------------------------------------------------------------
// AddReminder / AddPriority
// ---------------------------------------------------------------------------

func TestAddPriorityThenReminder(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	p, err := e.svc.AddPriority("Urgent", models.Named(models.Yellow))
	c.Assert(err, qt.IsNil)
	c.Assert(*p, qt.Equals, models.Priority{Name: "Urgent", ID: "0", Color: models.Named(models.Yellow)})

	res, err := e.svc.AddReminder(service.ScopeGlobal, e.root, "Ship it", "Urgent", "")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Index, qt.Equals, 2)

	g, err := store.Load(e.global(c).Path)
	c.Assert(err, qt.IsNil)
	last := g.Reminders[len(g.Reminders)-1]
	c.Assert(last, qt.Equals, models.Reminder{Priority: "Urgent", Author: "", Text: "Ship it"})
}

func TestAddReminder_LocalTargetsNearestConfig(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	e.initAt(c, "proj")
	inner := e.initAt(c, "proj/inner")

	res, err := e.svc.AddReminder(service.ScopeLocal, e.dir(c, "proj/inner/x"), "deep", "Critical", "me")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Path, qt.Equals, inner)

	cfg, err := store.Load(inner)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Reminders[len(cfg.Reminders)-1].Author, qt.Equals, "me")
}

func TestAddReminder_LocalFallsBackToGlobal(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	res, err := e.svc.AddReminder(service.ScopeLocal, e.dir(c, "nowhere"), "fallback", "Critical", "")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Path, qt.Equals, e.global(c).Path)
}

func TestAddReminder_GlobalScopeIgnoresLocalConfig(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	proj := e.initAt(c, "proj")
	before := readFile(c, proj)

	res, err := e.svc.AddReminder(service.ScopeGlobal, filepath.Dir(proj), "global one", "Critical", "")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Path, qt.Equals, e.global(c).Path)
	c.Assert(readFile(c, proj), qt.Equals, before)
}

func TestAddReminder_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("unknown priority leaves the target untouched", func(c *qt.C) {
		e := newEnv(c)
		proj := e.initAt(c, "proj")
		before := readFile(c, proj)

		_, err := e.svc.AddReminder(service.ScopeLocal, filepath.Dir(proj), "nope", "Imaginary", "")
		c.Assert(err, qt.ErrorIs, apperr.ErrUnknownPriority)
		c.Assert(readFile(c, proj), qt.Equals, before)
	})

	c.Run("unknown priority in global scope", func(c *qt.C) {
		e := newEnv(c)
		globalPath := e.global(c).Path
		before := readFile(c, globalPath)

		_, err := e.svc.AddReminder(service.ScopeGlobal, e.root, "nope", "Imaginary", "")
		c.Assert(err, qt.ErrorIs, apperr.ErrUnknownPriority)
		c.Assert(readFile(c, globalPath), qt.Equals, before)
	})

	c.Run("priorities defined in a local file are not consulted", func(c *qt.C) {
		e := newEnv(c)
		proj := e.initAt(c, "proj")
		local, err := store.Load(proj)
		c.Assert(err, qt.IsNil)
		local.Priorities = append(local.Priorities, models.Priority{Name: "LocalOnly", ID: "0"})
		c.Assert(store.Persist(local), qt.IsNil)

		_, err = e.svc.AddReminder(service.ScopeLocal, filepath.Dir(proj), "x", "LocalOnly", "")
		c.Assert(err, qt.ErrorIs, apperr.ErrUnknownPriority)
	})

	c.Run("blank text is rejected", func(c *qt.C) {
		e := newEnv(c)
		_, err := e.svc.AddReminder(service.ScopeGlobal, e.root, "   ", "Critical", "")
		c.Assert(err, qt.ErrorIs, apperr.ErrInvalidInput)
	})
}

func TestAddPriority_DuplicateNamesAreNotRejected(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	_, err := e.svc.AddPriority("Critical", models.Named(models.Blue))
	c.Assert(err, qt.IsNil)

	prios, err := e.svc.Priorities()
	c.Assert(err, qt.IsNil)
	c.Assert(prios, qt.HasLen, 2)
	c.Assert(prios[0].Name, qt.Equals, prios[1].Name)
}

func TestAddPriority_FailurePath(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	_, err := e.svc.AddPriority("  ", models.Named(models.Blue))
	c.Assert(err, qt.ErrorIs, apperr.ErrInvalidInput)

	prios, err := e.svc.Priorities()
	c.Assert(err, qt.IsNil)
	c.Assert(prios, qt.HasLen, 1)
}

// ---------------------------------------------------------------------------
// Removal
// ---------------------------------------------------------------------------

func TestRemoveReminder(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	proj := e.initAt(c, "proj")
	cwd := filepath.Dir(proj)
	_, err := e.svc.AddReminder(service.ScopeLocal, cwd, "second", "Critical", "")
	c.Assert(err, qt.IsNil)

	removed, err := e.svc.RemoveReminder(service.ScopeLocal, cwd, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(removed.Text, qt.Equals, "This is a local critical reminder!")
	c.Assert(removed.Path, qt.Equals, proj)

	cfg, err := store.Load(proj)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Reminders, qt.HasLen, 1)
	c.Assert(cfg.Reminders[0].Text, qt.Equals, "second")

	for _, idx := range []int{0, 2, -1} {
		_, err := e.svc.RemoveReminder(service.ScopeLocal, cwd, idx)
		c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)
	}
}

func TestRemovePriority_LeavesDanglingReminders(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	n, err := e.svc.RemovePriority("Critical")
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 1)

	sum, err := e.svc.AggregateLocal(e.root)
	c.Assert(err, qt.IsNil)
	c.Assert(sum.Reminders, qt.HasLen, 1)
	_, ok := sum.FindPriority(sum.Reminders[0].Priority)
	c.Assert(ok, qt.IsFalse)

	_, err = e.svc.RemovePriority("Critical")
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)
}

// ---------------------------------------------------------------------------
// RegisterLocal / Unregister
// ---------------------------------------------------------------------------

func TestRegisterLocal_Branches(t *testing.T) {
	c := qt.New(t)

	c.Run("creates and registers a default local config", func(c *qt.C) {
		e := newEnv(c)
		dir := e.dir(c, "proj")

		res, err := e.svc.RegisterLocal(dir, service.ConfirmerFunc(deny))
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, service.InitCreated)
		c.Assert(res.Path, qt.Equals, filepath.Join(dir, "rmnd.toml"))
		c.Assert(e.global(c).ConfigPaths, qt.DeepEquals, []string{res.Path})

		cfg, err := store.Load(res.Path)
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Reminders[0].Text, qt.Equals, "This is a local critical reminder!")
	})

	c.Run("second init is a no-op", func(c *qt.C) {
		e := newEnv(c)
		path := e.initAt(c, "proj")
		before := readFile(c, e.global(c).Path)

		res, err := e.svc.RegisterLocal(filepath.Dir(path), nil)
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, service.InitAlreadyRegistered)
		c.Assert(readFile(c, e.global(c).Path), qt.Equals, before)
	})

	c.Run("existing file is adopted when allowed", func(c *qt.C) {
		e := newEnv(c)
		dir := e.dir(c, "cloned")
		path := filepath.Join(dir, "rmnd.toml")
		c.Assert(os.WriteFile(path, []byte("[[reminders]]\npriority = \"Critical\"\nauthor = \"\"\ntext = \"kept\"\n"), 0o644), qt.IsNil)

		var asked string
		res, err := e.svc.RegisterLocal(dir, service.ConfirmerFunc(func(q string) (service.Decision, error) {
			asked = q
			return service.Allow, nil
		}))
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, service.InitAdopted)
		c.Assert(asked, qt.Contains, path)
		c.Assert(e.global(c).ConfigPaths, qt.DeepEquals, []string{path})

		// The adopted file keeps its content.
		cfg, err := store.Load(path)
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Reminders, qt.HasLen, 1)
		c.Assert(cfg.Reminders[0].Text, qt.Equals, "kept")
	})

	c.Run("existing file is left alone when denied", func(c *qt.C) {
		e := newEnv(c)
		dir := e.dir(c, "cloned")
		c.Assert(store.Create(filepath.Join(dir, "rmnd.toml"), models.DefaultLocal()), qt.IsNil)

		res, err := e.svc.RegisterLocal(dir, service.ConfirmerFunc(deny))
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, service.InitDeclined)
		c.Assert(e.global(c).ConfigPaths, qt.HasLen, 0)
	})

	c.Run("no confirmer means deny", func(c *qt.C) {
		e := newEnv(c)
		dir := e.dir(c, "cloned")
		c.Assert(store.Create(filepath.Join(dir, "rmnd.toml"), models.DefaultLocal()), qt.IsNil)

		res, err := e.svc.RegisterLocal(dir, nil)
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, service.InitDeclined)
	})
}

func TestRegisterLocal_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("global config directory cannot become local", func(c *qt.C) {
		e := newEnv(c)
		_, err := e.svc.RegisterLocal(filepath.Dir(e.global(c).Path), service.ConfirmerFunc(allow))
		c.Assert(err, qt.ErrorIs, apperr.ErrInvalidInput)
	})

	c.Run("directory in place of the config file", func(c *qt.C) {
		e := newEnv(c)
		dir := e.dir(c, "proj")
		c.Assert(os.Mkdir(filepath.Join(dir, "rmnd.toml"), 0o755), qt.IsNil)

		_, err := e.svc.RegisterLocal(dir, service.ConfirmerFunc(allow))
		c.Assert(err, qt.ErrorIs, apperr.ErrPathConflict)
	})

	c.Run("corrupt existing file is not adopted", func(c *qt.C) {
		e := newEnv(c)
		dir := e.dir(c, "proj")
		c.Assert(os.WriteFile(filepath.Join(dir, "rmnd.toml"), []byte("= broken"), 0o644), qt.IsNil)

		_, err := e.svc.RegisterLocal(dir, service.ConfirmerFunc(allow))
		c.Assert(err, qt.ErrorIs, apperr.ErrCorruptConfig)
		c.Assert(e.global(c).ConfigPaths, qt.HasLen, 0)
	})
}

func TestUnregister(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	keep := e.initAt(c, "keep")
	drop := e.initAt(c, "drop")

	got, err := e.svc.Unregister(e.dir(c, "drop/sub"))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, drop)
	c.Assert(e.global(c).ConfigPaths, qt.DeepEquals, []string{keep})

	// The file stays on disk.
	_, err = os.Stat(drop)
	c.Assert(err, qt.IsNil)

	_, err = e.svc.Unregister(e.dir(c, "none"))
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)
}

func TestUnregister_IgnoresUnregisteredFileInWorkingDirectory(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	proj := e.initAt(c, "proj")
	sub := e.dir(c, "proj/sub")
	c.Assert(store.Create(filepath.Join(sub, "rmnd.toml"), models.DefaultLocal()), qt.IsNil)

	got, err := e.svc.Unregister(sub)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, proj)
	c.Assert(e.global(c).ConfigPaths, qt.HasLen, 0)
}

// ---------------------------------------------------------------------------
// Locations / DefaultAuthor
// ---------------------------------------------------------------------------

func TestLocations(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)
	outer := e.initAt(c, "outer")
	inner := e.initAt(c, "outer/inner")

	loc, err := e.svc.Locations(filepath.Dir(inner))
	c.Assert(err, qt.IsNil)
	c.Assert(loc.Global, qt.Equals, e.global(c).Path)
	c.Assert(loc.Source, qt.Equals, "flag")
	c.Assert(loc.Nearest, qt.Equals, inner)
	c.Assert(loc.InScope, qt.DeepEquals, []string{outer, inner})
	c.Assert(loc.Registered, qt.DeepEquals, []string{outer, inner})
}

func TestDefaultAuthor(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	author, err := e.svc.DefaultAuthor()
	c.Assert(err, qt.IsNil)
	c.Assert(author, qt.Equals, "")

	g := e.global(c)
	g.Settings = models.Settings{Name: "Jane Roe", Username: "jroe"}
	c.Assert(store.Persist(g), qt.IsNil)

	author, err = e.svc.DefaultAuthor()
	c.Assert(err, qt.IsNil)
	c.Assert(author, qt.Equals, "Jane Roe, jroe")
}

func TestScopeOf(t *testing.T) {
	c := qt.New(t)
	c.Assert(service.ScopeOf(true), qt.Equals, service.ScopeGlobal)
	c.Assert(service.ScopeOf(false), qt.Equals, service.ScopeLocal)
	c.Assert(service.ScopeGlobal.String(), qt.Equals, "global")
	c.Assert(service.ScopeLocal.String(), qt.Equals, "local")
}
