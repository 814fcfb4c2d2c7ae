// Package lsp serves Blade formatting and on-type indentation over the
// Language Server Protocol (3.16) on stdio.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	// Registers the commonlog backend glsp logs through.
	_ "github.com/tliron/commonlog/simple"

	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/format"
)

// Name is the server name reported to clients.
const Name = "bladefmt"

// onTypeTrigger re-indents the new line after Enter.
const onTypeTrigger = "\n"

// Options configures a Server.
type Options struct {
	// Version is reported in the initialize response.
	Version string

	// StoreFor returns the preference store for a document path. Nil uses
	// the defaults for every document.
	StoreFor func(path string) format.PreferenceStore

	// Logger receives bladefmt's own log output. It must not write to
	// stdout, which carries the protocol.
	Logger *log.Logger

	// Verbosity is the commonlog verbosity for glsp internals
	// (0 = errors only).
	Verbosity int
}

// Server is a Blade formatting language server.
type Server struct {
	opts    Options
	handler protocol.Handler
	server  *server.Server
	docs    *documentStore
	ctx     context.Context //nolint:containedctx // Handlers get no context from glsp.
}

// NewServer creates a Server.
func NewServer(opts Options) *Server {
	if opts.StoreFor == nil {
		opts.StoreFor = func(string) format.PreferenceStore { return format.StaticStore{} }
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	s := &Server{
		opts: opts,
		docs: newDocumentStore(),
		ctx:  logging.WithLogger(context.Background(), opts.Logger),
	}

	s.handler = protocol.Handler{
		Initialize:                   s.initialize,
		Initialized:                  s.initialized,
		Shutdown:                     s.shutdown,
		SetTrace:                     s.setTrace,
		TextDocumentDidOpen:          s.didOpen,
		TextDocumentDidChange:        s.didChange,
		TextDocumentDidClose:         s.didClose,
		TextDocumentFormatting:       s.formatting,
		TextDocumentRangeFormatting:  s.rangeFormatting,
		TextDocumentOnTypeFormatting: s.onTypeFormatting,
	}

	s.server = server.NewServer(&s.handler, Name, opts.Verbosity > 1)
	return s
}

// RunStdio serves the protocol on stdin/stdout until the client exits.
func (s *Server) RunStdio() error {
	commonlog.Configure(s.opts.Verbosity, nil)
	return s.server.RunStdio()
}

// Handler exposes the protocol handler, for tests and alternative transports.
func (s *Server) Handler() *protocol.Handler {
	return &s.handler
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	change := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &change,
	}
	capabilities.DocumentFormattingProvider = true
	capabilities.DocumentRangeFormattingProvider = true
	capabilities.DocumentOnTypeFormattingProvider = &protocol.DocumentOnTypeFormattingOptions{
		FirstTriggerCharacter: onTypeTrigger,
	}

	client := ""
	if params != nil && params.ClientInfo != nil {
		client = params.ClientInfo.Name
	}
	s.log().Info("client connected", "client", client)

	version := s.opts.Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.log().Debug("shutdown", "open_documents", s.docs.len())
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.docs.open(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	s.log().Debug("opened", logging.FieldURI, params.TextDocument.URI)
	return nil
}

func (s *Server) didChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return s.docs.change(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges)
}

func (s *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.close(params.TextDocument.URI)
	return nil
}

func (s *Server) log() *log.Logger {
	return s.opts.Logger
}

// uriToPath converts a file:// URI to a local path. Other schemes are
// returned unchanged.
func uriToPath(uri protocol.DocumentUri) string {
	raw := string(uri)
	if !strings.HasPrefix(raw, "file://") {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return filepath.Clean(filepath.FromSlash(parsed.Path))
}

func boolPtr(b bool) *bool {
	return &b
}
