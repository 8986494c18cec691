/*

Package please implements Please, a small expression-oriented language
where every form is either a literal, a name reference, or a call.

Basic Syntax

Comments are as in Go. They are ignored by the language. Block comments
don't nest.

	// line comment
	/* block comment * /

Numbers are a series of digits, optionally signed, with an optional
fractional part and exponent:

	0
	150
	-13
	14.72
	-2.8e3

There is no dedicated operator syntax — arithmetic and comparison are
ordinary calls against a Word:

	+(1, 3)           // 4
	/(3, 2)           // 1.5
	-(  *(12, 4), 6)  // 42
	>(5, 4)           // true

Strings are delimited by matching single or double quotes and support the
usual backslash escapes:

	"hello\nworld"
	'single quotes work too'

Calls

Parentheses and braces are interchangeable as call delimiters, as long as
the closer matches the opener:

	f(x, y)
	f{x, y}

Calls chain left-associatively, so a function returning a function can be
applied again immediately:

	adder(1)(2)       // 3, if adder is curried

Bindings and Control Flow

	let(x, 1)                 // binds x in the innermost scope
	assign(x, 2)               // rebinds x in the nearest enclosing scope
	if(cond, then, else)
	while(cond, body)
	for(init, cond, update, body)
	foreach(item, collection, body)
	run( a, b, c )             // sequences a, b, c in a fresh scope

Functions and Objects

	fn(a, b, +(a, b))          // a two-argument function
	->(+(1, 1))                // a zero-argument function, -> is an alias for fn
	object(
	  "greet", ->(println("hi from", element(self, "name"))),
	  "name", "ts"
	)

*/
package please
