// Package commands implements the orderflowctl command tree: resolving
// service workflows against the order API and inspecting or sweeping the
// resume cache held in a store backend.
package commands
