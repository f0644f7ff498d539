/*

Process of execution

Program Text ->
	lex ->
Tokens (token) + Name Table (symtab) ->
	translate (front) ->
Quad Program (ir) ->
	interpret (interp) ->
Console Output

Translation is a single pass: the parser emits quads as it recognizes
the grammar, there is no syntax tree.

*/
package compiler
