package test

import (
	"math/rand"
	"strings"
)

// validTokens lex on their own and next to each other when separated by
// whitespace, in any order
const validTokens = "let;const;fn;if;else;return;println;print;true;false;main;_snake_case;únicódeIdent;(;);{;};[;];\"this is a string\";\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\";'raw $string';\"escaped \\\" quote\";\"\";+;-;*;/;==;!=;<;>;<=;>=;&&;||;=;=>;:;,;.;123;321;3.14;0.5;//comment\n;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
