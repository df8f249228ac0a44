// Package lua runs Lua scripts that drive outliner actions.
//
// A script sees a single global table, outliner:
//
//	outliner.perform(action)              -- handled, updated
//	outliner.cursor()                     -- line, column of the cursor
//	outliner.cursor(line, column)         -- move the cursor
//	outliner.select(aLine, aCol, hLine, hCol)
//	outliner.text()                       -- whole buffer
//	outliner.line(n)                      -- text of line n
//	outliner.lines()                      -- number of lines
//	outliner.actions()                    -- registered action names
//	outliner.move(from, to, where)        -- move the item at line from
//	outliner.zoom(line)                   -- Enter on that item nests; zoom() clears
//
// Lines and columns are 1-based. Only the base, table, string and math
// libraries are opened; file, OS and module loading functions are removed.
//
// A script runs as one transaction: when it fails, the buffer is restored
// to its state before the script started.
package lua
