// Package lang implements scrip, a small dynamically typed scripting
// language, as a three-stage pipeline: [Scan] converts source text to
// tokens, [ParseTokens] builds a [Program] with a precedence-climbing
// (Pratt) parser, and an [Evaluator] walks the tree against a chained
// lexical [Env].
//
// # Grammar
//
// Informal EBNF:
//
//	program    → statement* EOF
//	statement  → letStmt | block | whileStmt | forStmt | funDecl | exprStmt
//	letStmt    → "let" IDENT ("=" expression)? terminator?
//	block      → "{" statement* "}"
//	whileStmt  → "while" expression block
//	forStmt    → "for" letStmt ";" expression ";" expression block
//	funDecl    → "fun" IDENT "(" (IDENT ("," IDENT)*)? ")" block
//	exprStmt   → expression terminator?
//	terminator → NEWLINE | ";"
//
// Expressions bind, loosest first: assignment (=, right-associative), ||,
// &&, equality (== !=), comparison (< <= > >=), sum (+ -), product (* /),
// prefix (- !), and call. All binary operators are left-associative.
// "if" is an expression whose value is the value of the chosen block, or
// null when the condition is false and there is no else block. An else
// must follow the closing brace of its then block on the same line.
//
// # Values
//
// A [Value] is one of null, integer (int64), float (float64), bool, or
// string. Arithmetic on two integers yields an integer, with division
// truncating toward zero; a mixed integer and float pair promotes to float.
// '+' also concatenates strings. Conditions and the operands of '!', '&&',
// and '||' must be bools; nothing is implicitly truthy.
//
// # Scoping
//
// Every block evaluates in a new scope enclosed by the scope it appears in.
// "let" always binds in the current scope, shadowing outer bindings;
// assignment replaces the innermost existing binding and never creates one.
//
//	let x = 1
//	{ let x = 2 }   // x is still 1
//	{ x = 3 }       // x is now 3
//
// # Errors
//
// All failures are returned as [*Error]. Each matches exactly one phase
// sentinel ([ErrScan], [ErrParse], [ErrRuntime]) and one kind sentinel
// with [errors.Is], and records the offending token when one exists.
// [Diagnostic] renders an error with a caret under its source location.
package lang
