package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/guptarut/treemap/pkg/observability"
)

// debugHooks logs pipeline, cache and tree events at debug level.
type debugHooks struct {
	logger *log.Logger
}

// EnableDebugHooks registers hooks that log every pipeline, cache and tree
// event through the CLI logger. main calls it for --verbose.
func (c *CLI) EnableDebugHooks() {
	h := &debugHooks{logger: c.Logger.WithPrefix("hooks")}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetTreeHooks(h)
}

func (h *debugHooks) OnScanStart(_ context.Context, root string) {
	h.logger.Debug("scan start", "root", root)
}

func (h *debugHooks) OnScanComplete(_ context.Context, root string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("scan failed", "root", root, "error", err)
		return
	}
	h.logger.Debug("scan complete", "root", root, "nodes", nodeCount, "duration", d)
}

func (h *debugHooks) OnLayoutStart(_ context.Context, width, height, nodeCount int) {
	h.logger.Debug("layout start", "width", width, "height", height, "nodes", nodeCount)
}

func (h *debugHooks) OnLayoutComplete(_ context.Context, tileCount int, d time.Duration, err error) {
	h.logger.Debug("layout complete", "tiles", tileCount, "duration", d, "error", err)
}

func (h *debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "error", err)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *debugHooks) OnMutation(_ context.Context, op, nodeID string, changed bool) {
	h.logger.Debug("tree mutation", "op", op, "node", nodeID, "changed", changed)
}

var (
	_ observability.PipelineHooks = (*debugHooks)(nil)
	_ observability.CacheHooks    = (*debugHooks)(nil)
	_ observability.TreeHooks     = (*debugHooks)(nil)
)
