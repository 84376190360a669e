package script

import (
	"sort"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

const maxFormatDepth = 8

// Format renders a Lua value deterministically. Table keys are sorted and
// nested tables deeper than a fixed depth are elided.
func Format(v lua.LValue) string {
	var b strings.Builder
	format(&b, v, 0)
	return b.String()
}

func format(b *strings.Builder, v lua.LValue, depth int) {
	switch tv := v.(type) {
	case nil:
		b.WriteString("nil")
	case lua.LString:
		b.WriteString(strconv.Quote(string(tv)))
	case *lua.LTable:
		if depth >= maxFormatDepth {
			b.WriteString("{...}")
			return
		}
		formatTable(b, tv, depth)
	default:
		b.WriteString(v.String())
	}
}

func formatTable(b *strings.Builder, t *lua.LTable, depth int) {
	n := t.Len()

	type entry struct {
		key string
		val lua.LValue
	}
	var named []entry
	t.ForEach(func(k, v lua.LValue) {
		if num, ok := k.(lua.LNumber); ok {
			if i := int(num); lua.LNumber(i) == num && i >= 1 && i <= n {
				return
			}
		}
		key := k.String()
		if _, ok := k.(lua.LString); !ok {
			key = "[" + key + "]"
		}
		named = append(named, entry{key: key, val: v})
	})
	sort.Slice(named, func(i, j int) bool { return named[i].key < named[j].key })

	b.WriteByte('{')
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		format(b, t.RawGetInt(i), depth+1)
	}
	for i, e := range named {
		if n > 0 || i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.key)
		b.WriteByte('=')
		format(b, e.val, depth+1)
	}
	b.WriteByte('}')
}
