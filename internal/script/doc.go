// Package script runs base reducers written in Lua.
//
// A script defines global functions that the history wrapper calls:
//
//	function init(action)                  -- optional, initial state
//	function reduce(state, action)         -- required
//	function history_filter(action, state) -- optional, returns boolean
//	function action_filter(action, state, past_len) -- optional, returns boolean
//
// Actions arrive as tables {kind = "INC", index = 0, args = {"5"}}. Returning
// the state argument unchanged marks the action as a no-op; numbers, strings
// and booleans compare by value and tables by identity.
//
// Scripts run in a restricted Lua environment: only the base, table, string
// and math libraries are opened and file loading functions are removed. Each
// call is bounded by a timeout. A failing call is logged and leaves the state
// unchanged, so a broken script never corrupts the history.
package script
