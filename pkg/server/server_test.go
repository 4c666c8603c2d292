package server_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/knockknock"
	"github.com/aretw0/knockknock/internal/logging"
	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/aretw0/knockknock/pkg/ports"
	"github.com/aretw0/knockknock/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) domain.Table {
	t.Helper()
	table, err := domain.NewTable(
		domain.Entry{Setup: "Turnip", Punchline: "Turnip the heat! Want another? (y/n)"},
		domain.Entry{Setup: "Atch", Punchline: "Bless you! Want another? (y/n)"},
	)
	require.NoError(t, err)
	return table
}

func newServer(t *testing.T, addr string, opts ...server.Option) *server.Server {
	t.Helper()
	opts = append([]server.Option{
		server.WithEngineOptions(knockknock.WithTable(testTable(t))),
		server.WithSessionIDFunc(func() string { return "test-session" }),
	}, opts...)
	return server.New(addr, opts...)
}

// peer is the client side of a connection under test.
type peer struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func newPeer(t *testing.T, conn net.Conn) *peer {
	return &peer{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (p *peer) expect(want string) {
	p.t.Helper()
	p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := p.r.ReadString('\n')
	require.NoError(p.t, err)
	assert.Equal(p.t, want+"\n", line)
}

func (p *peer) say(line string) {
	p.t.Helper()
	_, err := p.conn.Write([]byte(line + "\n"))
	require.NoError(p.t, err)
}

type recordingObserver struct {
	mu      sync.Mutex
	started []string
	ended   []server.Outcome
}

func (o *recordingObserver) SessionStarted(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, id)
}

func (o *recordingObserver) SessionEnded(id string, outcome server.Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ended = append(o.ended, outcome)
}

func serveConn(t *testing.T, srv *server.Server, ctx context.Context) (net.Conn, <-chan result) {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() { clientSide.Close() })

	done := make(chan result, 1)
	go func() {
		res, err := srv.ServeConn(ctx, serverSide)
		done <- result{res, err}
	}()
	return clientSide, done
}

type result struct {
	res server.Result
	err error
}

func wait(t *testing.T, done <-chan result) result {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish")
		return result{}
	}
}

func TestServeConn_FullDialogue(t *testing.T) {
	obs := &recordingObserver{}
	srv := newServer(t, "", server.WithObserver(obs))
	conn, done := serveConn(t, srv, context.Background())

	p := newPeer(t, conn)
	p.expect("Knock! Knock!")
	p.say("Who's there?")
	p.expect("Turnip")
	p.say("Turnip who?")
	p.expect("Turnip the heat! Want another? (y/n)")
	p.say("y")
	p.expect("Atch")
	p.say("Atch who?")
	p.expect("Bless you! Want another? (y/n)")
	p.say("n")
	p.expect("Bye.")

	r := wait(t, done)
	require.NoError(t, r.err)
	assert.Equal(t, server.OutcomeCompleted, r.res.Outcome)
	assert.Equal(t, "test-session", r.res.SessionID)
	assert.Equal(t, 6, r.res.Turns)
	assert.Equal(t, 2, r.res.Rounds)

	assert.Equal(t, []string{"test-session"}, obs.started)
	assert.Equal(t, []server.Outcome{server.OutcomeCompleted}, obs.ended)
}

func TestServeConn_CRLF(t *testing.T) {
	srv := newServer(t, "")
	conn, done := serveConn(t, srv, context.Background())

	p := newPeer(t, conn)
	p.expect("Knock! Knock!")
	p.say("Who's there?\r")
	p.expect("Turnip")
	p.say("Turnip who?\r")
	p.expect("Turnip the heat! Want another? (y/n)")
	// "y\r" must still count as affirmative once the terminator is stripped.
	p.say("y\r")
	p.expect("Atch")
	p.say("\r")
	p.expect("Bless you! Want another? (y/n)")
	p.say("nope\r")
	p.expect("Bye.")

	r := wait(t, done)
	require.NoError(t, r.err)
}

func TestServeConn_ClientGone(t *testing.T) {
	srv := newServer(t, "")
	conn, done := serveConn(t, srv, context.Background())

	p := newPeer(t, conn)
	p.expect("Knock! Knock!")
	require.NoError(t, conn.Close())

	r := wait(t, done)
	assert.ErrorIs(t, r.err, server.ErrClientGone)
	assert.Equal(t, server.OutcomeClientGone, r.res.Outcome)
	assert.Equal(t, 1, r.res.Turns)
}

func TestServeConn_IdleTimeout(t *testing.T) {
	srv := newServer(t, "", server.WithIdleTimeout(50*time.Millisecond))
	conn, done := serveConn(t, srv, context.Background())

	p := newPeer(t, conn)
	p.expect("Knock! Knock!")

	r := wait(t, done)
	assert.ErrorIs(t, r.err, server.ErrIdleTimeout)
	assert.Equal(t, server.OutcomeTimeout, r.res.Outcome)
}

func TestServeConn_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := newServer(t, "")
	conn, done := serveConn(t, srv, ctx)

	p := newPeer(t, conn)
	p.expect("Knock! Knock!")
	cancel()

	r := wait(t, done)
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.Equal(t, server.OutcomeCancelled, r.res.Outcome)
}

func TestServeConn_InvalidEngine(t *testing.T) {
	srv := server.New("", server.WithEngineOptions(knockknock.WithTable(domain.Table{})))
	_, done := serveConn(t, srv, context.Background())

	r := wait(t, done)
	assert.ErrorIs(t, r.err, domain.ErrEmptyTable)
	assert.Equal(t, server.OutcomeError, r.res.Outcome)
}

func TestServe_OneClientThenExit(t *testing.T) {
	srv := newServer(t, "127.0.0.1:0")
	require.NoError(t, srv.Listen())
	addr := srv.Addr().String()

	done := make(chan result, 1)
	go func() {
		res, err := srv.Serve(context.Background())
		done <- result{res, err}
	}()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	p := newPeer(t, conn)
	p.expect("Knock! Knock!")
	p.say("Who's there?")
	p.expect("Turnip")
	p.say("Turnip who?")
	p.expect("Turnip the heat! Want another? (y/n)")
	p.say("n")
	p.expect("Bye.")

	r := wait(t, done)
	require.NoError(t, r.err)
	assert.Equal(t, server.OutcomeCompleted, r.res.Outcome)

	// The listener is gone once the session is over.
	_, err = net.DialTimeout("tcp", addr, 500*time.Millisecond)
	assert.Error(t, err)
}

func TestServe_CancelBeforeClient(t *testing.T) {
	srv := newServer(t, "127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan result, 1)
	go func() {
		res, err := srv.Serve(ctx)
		done <- result{res, err}
	}()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 10*time.Millisecond)
	cancel()

	r := wait(t, done)
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.Equal(t, server.OutcomeCancelled, r.res.Outcome)
}

func TestServe_Closed(t *testing.T) {
	srv := newServer(t, "127.0.0.1:0")
	require.NoError(t, srv.Listen())
	require.NoError(t, srv.Close())

	_, err := srv.Serve(context.Background())
	assert.ErrorIs(t, err, server.ErrServerClosed)
}

func TestListen_BadAddress(t *testing.T) {
	srv := server.New("127.0.0.1:notaport")
	assert.Error(t, srv.Listen())
	assert.Nil(t, srv.Addr())
}

// echoDialogue repeats each line until it hears "stop".
type echoDialogue struct {
	turns int
	done  bool
}

func (d *echoDialogue) Start(context.Context) (string, error) {
	d.turns++
	return "hello", nil
}

func (d *echoDialogue) Reply(_ context.Context, line string) (string, error) {
	if d.done {
		return "", domain.ErrInvalidCall
	}
	d.turns++
	if line == "stop" {
		d.done = true
		return "Bye.", nil
	}
	return line, nil
}

func (d *echoDialogue) Done() bool { return d.done }

func (d *echoDialogue) Snapshot() domain.Snapshot {
	state := domain.StateOpened
	if d.done {
		state = domain.StateDone
	}
	return domain.Snapshot{State: state, Turns: d.turns}
}

func TestServeConn_DialogueFactory(t *testing.T) {
	var gotID string
	srv := newServer(t, "", server.WithDialogueFactory(func(id string) (ports.Dialogue, error) {
		gotID = id
		return &echoDialogue{}, nil
	}))
	conn, done := serveConn(t, srv, context.Background())

	p := newPeer(t, conn)
	p.expect("hello")
	p.say("one")
	p.expect("one")
	p.say("stop")
	p.expect("Bye.")

	r := wait(t, done)
	require.NoError(t, r.err)
	assert.Equal(t, "test-session", gotID)
	assert.Equal(t, 3, r.res.Turns)
}

func TestServeConn_DialogueFactoryError(t *testing.T) {
	boom := errors.New("boom")
	srv := newServer(t, "", server.WithDialogueFactory(func(string) (ports.Dialogue, error) {
		return nil, boom
	}))
	_, done := serveConn(t, srv, context.Background())

	r := wait(t, done)
	assert.ErrorIs(t, r.err, boom)
	assert.Equal(t, server.OutcomeError, r.res.Outcome)
}

func TestServeConn_LineTooLong(t *testing.T) {
	srv := newServer(t, "", server.WithMaxLineSize(8))
	conn, done := serveConn(t, srv, context.Background())

	p := newPeer(t, conn)
	p.expect("Knock! Knock!")
	go conn.Write([]byte("this line is far too long\n"))

	r := wait(t, done)
	assert.ErrorIs(t, r.err, server.ErrLineTooLong)
	assert.Equal(t, server.OutcomeError, r.res.Outcome)
}

func TestServeConn_ControlCharsReachEngineUnchanged(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, slog.LevelDebug)
	srv := newServer(t, "", server.WithLogger(logger))
	conn, done := serveConn(t, srv, context.Background())

	p := newPeer(t, conn)
	p.expect("Knock! Knock!")
	p.say("\x1bWho's there?")
	p.expect("Turnip")
	p.say("who?")
	p.expect("Turnip the heat! Want another? (y/n)")
	// Only the exact affirmative token continues.
	p.say("y\x00")
	p.expect("Bye.")

	r := wait(t, done)
	require.NoError(t, r.err)
	assert.Equal(t, server.OutcomeCompleted, r.res.Outcome)
	assert.NotContains(t, logs.String(), "\x1b")
	assert.Contains(t, logs.String(), "line received")
}

func TestServeConn_CancelWithIdleTimeout(t *testing.T) {
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		srv := newServer(t, "", server.WithIdleTimeout(10*time.Second))
		conn, done := serveConn(t, srv, ctx)

		p := newPeer(t, conn)
		p.expect("Knock! Knock!")
		cancel()

		select {
		case r := <-done:
			assert.ErrorIs(t, r.err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("cancellation waited for the idle timeout")
		}
	}
}
