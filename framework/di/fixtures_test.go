package di_test

import (
	"errors"
	"sync/atomic"

	"github.com/km-arc/go-framework/framework/di"
)

// ── stub classes ──────────────────────────────────────────────────────────────

type Engine struct{ HP int }

func NewEngine() *Engine { return &Engine{HP: 100} }

type Car struct {
	Engine *Engine
	Name   string
}

func NewCar(e *Engine, name string) *Car { return &Car{Engine: e, Name: name} }

type Plain struct {
	X     int
	Label string `prop:"label"`
	note  string
}

type Widget struct {
	Size   int
	Config di.Config
}

func NewWidget(size int, cfg di.Config) *Widget { return &Widget{Size: size, Config: cfg} }

type Greeter interface{ Greet() string }

type English struct{}

func (English) Greet() string { return "hello" }

type French struct{}

func (French) Greet() string { return "bonjour" }

type Host struct{ Greeter Greeter }

func NewHost(g Greeter) *Host { return &Host{Greeter: g} }

// Missing is never registered.
type Missing interface{ Missing() }

var needyBuilds atomic.Int32

type Needy struct{}

func NewNeedy(Missing) *Needy {
	needyBuilds.Add(1)
	return &Needy{}
}

type Label struct{ Text string }

func NewLabel(text string) *Label { return &Label{Text: text} }

type Ping struct{ Pong *Pong }
type Pong struct{ Ping *Ping }

func NewPing(p *Pong) *Ping { return &Ping{Pong: p} }
func NewPong(p *Ping) *Pong { return &Pong{Ping: p} }

var errBroken = errors.New("broken on purpose")

type Broken struct{}

func NewBroken() (*Broken, error) { return nil, errBroken }

type Tagged struct {
	values map[string]any
}

func (t *Tagged) SetProperty(name string, value any) error {
	if name == "forbidden" {
		return errors.New("not allowed")
	}
	if t.values == nil {
		t.values = make(map[string]any)
	}
	t.values[name] = value
	return nil
}

var (
	engineKey = di.TypeKey((*Engine)(nil))
	carKey    = di.TypeKey((*Car)(nil))
	plainKey  = di.TypeKey((*Plain)(nil))
	widgetKey = di.TypeKey((*Widget)(nil))
	greetKey  = di.TypeKey((*Greeter)(nil))
	hostKey   = di.TypeKey((*Host)(nil))
	englishK  = di.TypeKey((*English)(nil))
	frenchK   = di.TypeKey((*French)(nil))
	needyKey  = di.TypeKey((*Needy)(nil))
	labelKey  = di.TypeKey((*Label)(nil))
	pingKey   = di.TypeKey((*Ping)(nil))
	brokenKey = di.TypeKey((*Broken)(nil))
	taggedKey = di.TypeKey((*Tagged)(nil))
)

// newTypes registers every stub class.
func newTypes() *di.Types {
	types := di.NewTypes()
	types.MustRegister(NewEngine)
	types.MustRegister(NewCar, di.Params("engine", "name"), di.Default("name", "beetle"))
	types.MustRegister((*Plain)(nil))
	types.MustRegister(NewWidget, di.Params("size", "config"), di.Default("size", 1))
	types.MustRegister(func() *English { return &English{} })
	types.MustRegister(func() *French { return &French{} })
	types.MustRegister(NewHost, di.Params("greeter"))
	types.MustRegister(NewNeedy, di.Params("missing"))
	types.MustRegister(NewLabel)
	types.MustRegister(NewPing)
	types.MustRegister(NewPong)
	types.MustRegister(NewBroken)
	types.MustRegister((*Tagged)(nil))
	return types
}

func newContainer(opts ...di.Option) *di.Container {
	return di.New(newTypes(), opts...)
}
