package domain

// RenderFormat selects the output representation requested from the engine.
type RenderFormat string

const (
	RenderFormatAll  RenderFormat = "all"
	RenderFormatHTML RenderFormat = "html"
	RenderFormatText RenderFormat = "text"
	RenderFormatJSON RenderFormat = "json"
)

// AllowedRenderFormats lists the render formats accepted from callers.
var AllowedRenderFormats = map[RenderFormat]bool{
	RenderFormatAll:  true,
	RenderFormatHTML: true,
	RenderFormatText: true,
	RenderFormatJSON: true,
}

// ParseStatus is the business outcome of a parse call.
type ParseStatus string

const (
	ParseStatusOK   ParseStatus = "ok"
	ParseStatusFail ParseStatus = "fail"
)

// ParseSource identifies which entry point accepted a request.
type ParseSource string

const (
	ParseSourceHTTP  ParseSource = "http"
	ParseSourceEvent ParseSource = "event"
	ParseSourceCLI   ParseSource = "cli"
)

// SupervisorState is the lifecycle of the supervised parser server process.
type SupervisorState string

const (
	SupervisorNotStarted SupervisorState = "not_started"
	SupervisorStarting   SupervisorState = "starting"
	SupervisorReady      SupervisorState = "ready"
	SupervisorFailed     SupervisorState = "failed"
)
