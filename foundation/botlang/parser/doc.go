// File: doc.go
// Title: Botlang Parser Package Documentation
// Description: Lexer and recursive descent parser for the botlang
//              scripting language.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser package

/*
Package parser converts botlang source text into an AST.

# Syntax Overview

	# comments run to the end of the line
	var hp = _HEALTH                  # sensors start with "_"
	def flee() -> $TURN_LEFT          # one-line function
	def decide(enemy):
	    if enemy == "ENEMY" and hp > 20:
	        return $ATTACK            # actions start with "$"
	    elif hp <= 20 then return flee()
	    else:
	        return $MOVE
	    end
	end
	decide(_FRONT_NEIGHBOR)

Keywords are case-insensitive (END, True). A semicolon separates
statements like a newline, and newlines inside ( ) or [ ] are ignored.

# Usage

	tokens, err := parser.Tokenize("bot.bl", source)
	program, err := parser.New(tokens).Parse()

or in one step with ParseSource. Errors are *diag.Error values of kind
IllegalCharacter or InvalidSyntax; the first error stops processing.
*/
package parser
