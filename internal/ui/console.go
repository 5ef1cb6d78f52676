package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/nftmint/internal/contract"
	"github.com/Mohsinsiddi/nftmint/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

type itemKind int

const (
	itemConnect itemKind = iota
	itemRead
	itemWrite
	itemDisconnect
)

// consoleItem is one navigable line of the console.
type consoleItem struct {
	kind   itemKind
	method contract.MethodInfo
	inputs abi.Arguments
}

func (it consoleItem) label() string {
	switch it.kind {
	case itemConnect:
		return "connect"
	case itemDisconnect:
		return "disconnect"
	}
	return it.method.Name
}

type (
	stateMsg      session.State
	statesDoneMsg struct{}
	tickMsg       time.Time
	resultMsg     struct {
		label string
		text  string
		err   error
	}
)

// argInput collects space-separated arguments for a method with inputs.
type argInput struct {
	item consoleItem
	buf  string
}

const historySize = 8

// ConsoleModel is the interactive page. While the session is disconnected it
// offers only "connect"; once connected it lists the contract's read and
// write methods, each invoked as a background command so the page stays
// responsive.
type ConsoleModel struct {
	ctx       context.Context
	session   *session.Manager
	approvals *ChannelApprover
	methods   []contract.MethodInfo
	states    <-chan session.State
	unsub     func()

	state    session.State
	items    []consoleItem
	cursor   int
	inflight int
	frame    int
	pending  *approvalMsg
	input    *argInput
	history  []string
	Quitting bool
}

// NewConsole subscribes to the session store. approvals may be nil when
// requests are answered elsewhere (--yes).
func NewConsole(ctx context.Context, s *session.Manager, approvals *ChannelApprover) ConsoleModel {
	states, unsub := s.Store().Subscribe()
	m := ConsoleModel{
		ctx:       ctx,
		session:   s,
		approvals: approvals,
		methods:   contract.Methods(s.ABI()),
		states:    states,
		unsub:     unsub,
		state:     s.State(),
	}
	m.buildItems()
	return m
}

func (m *ConsoleModel) buildItems() {
	if !m.state.Connected {
		m.items = []consoleItem{{kind: itemConnect}}
		m.cursor = 0
		return
	}
	m.items = nil
	for _, info := range m.methods {
		kind := itemRead
		if info.IsWrite {
			kind = itemWrite
		}
		var inputs abi.Arguments
		if method, err := m.session.Method(info.Name); err == nil {
			inputs = method.Inputs
		}
		m.items = append(m.items, consoleItem{kind: kind, method: info, inputs: inputs})
	}
	m.items = append(m.items, consoleItem{kind: itemDisconnect})
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
}

func (m ConsoleModel) waitState() tea.Cmd {
	ch := m.states
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return statesDoneMsg{}
		}
		return stateMsg(st)
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ConsoleModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitState()}
	if m.approvals != nil {
		cmds = append(cmds, m.approvals.wait())
	}
	return tea.Batch(cmds...)
}

func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = session.State(msg)
		m.buildItems()
		return m, m.waitState()

	case statesDoneMsg:
		return m, nil

	case approvalMsg:
		m.pending = &msg
		return m, nil

	case resultMsg:
		m.inflight--
		m.record(msg)
		return m, nil

	case tickMsg:
		if m.inflight == 0 {
			return m, nil
		}
		m.frame++
		return m, tick()

	case tea.KeyMsg:
		if m.pending != nil {
			return m.answer(msg)
		}
		if m.input != nil {
			return m.typeArg(msg)
		}
		return m.navigate(msg)
	}
	return m, nil
}

func (m ConsoleModel) answer(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var ok bool
	switch key.String() {
	case "y", "Y", "enter":
		ok = true
	case "n", "N", "esc":
		ok = false
	default:
		return m, nil
	}
	m.pending.reply <- ok
	m.pending = nil
	return m, m.approvals.wait()
}

func (m ConsoleModel) typeArg(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.input = nil
	case tea.KeyEnter:
		in := *m.input
		m.input = nil
		return m.start(in.item, strings.Fields(in.buf))
	case tea.KeyBackspace:
		if r := []rune(m.input.buf); len(r) > 0 {
			m.input = &argInput{item: m.input.item, buf: string(r[:len(r)-1])}
		}
	case tea.KeySpace:
		m.input = &argInput{item: m.input.item, buf: m.input.buf + " "}
	case tea.KeyRunes:
		m.input = &argInput{item: m.input.item, buf: m.input.buf + string(key.Runes)}
	}
	return m, nil
}

func (m ConsoleModel) navigate(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Quitting = true
		m.unsub()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		item := m.items[m.cursor]
		if len(item.inputs) > 0 {
			m.input = &argInput{item: item}
			return m, nil
		}
		return m.start(item, nil)
	}
	return m, nil
}

// start launches the call for item in the background.
func (m ConsoleModel) start(item consoleItem, raw []string) (tea.Model, tea.Cmd) {
	ctx, s := m.ctx, m.session
	label := item.label()

	var run func() resultMsg
	switch item.kind {
	case itemConnect:
		run = func() resultMsg {
			st, err := s.Connect(ctx)
			return resultMsg{label: label, text: fmt.Sprintf("%s via %s", st.Account.Hex(), st.Provider), err: err}
		}
	case itemDisconnect:
		run = func() resultMsg {
			return resultMsg{label: label, text: "session closed", err: s.Disconnect()}
		}
	case itemRead, itemWrite:
		method, err := s.Method(item.method.Name)
		if err != nil {
			m.record(resultMsg{label: label, err: err})
			return m, nil
		}
		args, err := contract.ParseArgs(method, raw)
		if err != nil {
			m.record(resultMsg{label: label, err: err})
			return m, nil
		}
		label = fmt.Sprintf("%s(%s)", item.method.Name, strings.Join(raw, ", "))
		if item.kind == itemRead {
			run = func() resultMsg {
				v, err := s.ReadContractValue(ctx, method.Name, args...)
				return resultMsg{label: label, text: v.String(), err: err}
			}
		} else {
			run = func() resultMsg {
				r, err := s.WriteContract(ctx, method.Name, args...)
				if r == nil {
					return resultMsg{label: label, err: err}
				}
				if r.Pending {
					return resultMsg{label: label, text: fmt.Sprintf("tx %s pending", TruncateAddr(r.TxHash.Hex())), err: err}
				}
				return resultMsg{label: label, text: fmt.Sprintf("tx %s in block %d", TruncateAddr(r.TxHash.Hex()), r.BlockNumber), err: err}
			}
		}
	}

	m.inflight++
	cmd := func() tea.Msg { return run() }
	if m.inflight == 1 {
		return m, tea.Batch(cmd, tick())
	}
	return m, cmd
}

func (m *ConsoleModel) record(r resultMsg) {
	var line string
	switch {
	case errors.Is(r.err, session.ErrProviderAbsent):
		line = Warn(r.label + ": no wallet detected, add one with `nftmint wallet add`")
	case r.err != nil:
		line = Err(r.label + ": " + trimErr(r.err.Error()))
	default:
		line = Success(r.label + " → " + r.text)
	}
	m.history = append(m.history, line)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

func (m ConsoleModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	const sepWidth = 72
	ruler := StyleMeta.Render(strings.Repeat("─", sepWidth))

	sb.WriteString(StyleTitle.Render("  nftmint console  ·  "+m.session.Address().Hex()) + "\n")

	switch {
	case m.state.Connected:
		sb.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			StyleSuccess.Render("●"), Addr(m.state.Account.Hex()),
			Meta("via"), ProviderName(m.state.Provider)))
	case !m.session.ProviderDetected():
		sb.WriteString("  " + Warn("no wallet detected") + "\n")
	default:
		sb.WriteString("  " + Meta("○ disconnected") + "\n")
	}
	sb.WriteString("\n")

	section := func(title string, n int) {
		hdr := fmt.Sprintf("  ── %s (%d) ", title, n)
		sb.WriteString(StyleHeader.Render(hdr) + StyleMeta.Render(strings.Repeat("─", max(sepWidth-len(hdr)-2, 0))) + "\n")
	}
	var reads, writes int
	for _, it := range m.items {
		switch it.kind {
		case itemRead:
			reads++
		case itemWrite:
			writes++
		}
	}

	for i, it := range m.items {
		if i == 0 && it.kind == itemRead {
			section("Read", reads)
		}
		if it.kind == itemWrite && (i == 0 || m.items[i-1].kind != itemWrite) {
			sb.WriteString("\n")
			section("Write", writes)
		}
		if it.kind == itemDisconnect {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderItem(i, it) + "\n")
	}
	sb.WriteString("\n" + ruler + "\n")

	for _, line := range m.history {
		sb.WriteString("  " + line + "\n")
	}
	if m.inflight > 0 {
		sb.WriteString(fmt.Sprintf("  %s %s\n", StyleProvider.Render(spinnerFrames[m.frame%len(spinnerFrames)]), Meta("waiting…")))
	}
	sb.WriteString(ruler + "\n\n")

	switch {
	case m.pending != nil:
		sb.WriteString(StylePrompt.Render(DescribeRequest(m.pending.req)) + "\n")
		sb.WriteString(StyleMeta.Render("  [ y ] approve   [ n ] reject") + "\n")
	case m.input != nil:
		sb.WriteString(fmt.Sprintf("  %s(%s): %s▌\n",
			StyleValue.Render(m.input.item.method.Name),
			StyleMeta.Render(paramSig(m.input.item.inputs)),
			m.input.buf))
		sb.WriteString(StyleMeta.Render("  [ Enter ] call   [ Esc ] cancel") + "\n")
	default:
		sb.WriteString(
			StyleMeta.Render("  [ ↑↓ / jk ]") + " navigate   " +
				StyleInfo.Render("[ Enter ]") + " run   " +
				StyleMeta.Render("[ q ]") + " quit\n")
	}
	return sb.String()
}

func (m ConsoleModel) renderItem(i int, it consoleItem) string {
	prefix := "    "
	if i == m.cursor {
		prefix = "  ▸ "
	}
	var line string
	switch it.kind {
	case itemConnect, itemDisconnect:
		line = prefix + StyleValue.Render(it.label())
	case itemRead:
		out := ""
		if len(it.method.Outputs) > 0 {
			out = StyleMeta.Render("  →  " + strings.Join(it.method.Outputs, ", "))
		}
		line = fmt.Sprintf("%s%s  %s(%s)%s", prefix, StyleMeta.Render(it.method.Selector),
			StyleValue.Render(it.method.Name), StyleMeta.Render(paramSig(it.inputs)), out)
	case itemWrite:
		line = fmt.Sprintf("%s%s  %s(%s)", prefix, StyleMeta.Render(it.method.Selector),
			StyleWarning.Render(it.method.Name), StyleMeta.Render(paramSig(it.inputs)))
	}
	if i == m.cursor {
		return StyleSelected.Render(line)
	}
	return line
}

// paramSig formats inputs as "type name, type name".
func paramSig(args abi.Arguments) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Type.String()
		if a.Name != "" {
			parts[i] += " " + a.Name
		}
	}
	return strings.Join(parts, ", ")
}

// RunConsole runs the console full-screen until the user quits or ctx ends.
func RunConsole(ctx context.Context, m ConsoleModel) error {
	defer m.unsub()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
