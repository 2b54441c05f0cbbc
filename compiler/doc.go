/*

Middle stage of compilation

Syntax Forest (ast, from an external parser or tree.Load) ->
	analyze ->
Annotated Syntax Forest (types, stack offsets, frame sizes) ->
	gen ->
Virtual Register Code (ir, one ir.Func per function) ->
	verify ->
Register Allocation (external)

format.Dump prints the ir for debugging.

*/
package compiler
