// Package ratelimit provides a per-client sliding-window request limiter with lazy,
// periodic and on-demand eviction of stale state.
//
// Each client identity keeps the arrival times of its accepted requests. A request is
// rejected once the identity already has MaxRequests accepted requests inside the
// trailing window; rejected requests are never recorded, so they do not consume slots.
//
// State is in-memory and per-process. It is lost on restart and is not shared between
// instances, so bursts right after a restart are not capped by earlier history.
package ratelimit
