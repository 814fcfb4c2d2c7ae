package blade

import "strings"

// directiveClass says how a directive affects nesting.
type directiveClass uint8

const (
	classInline directiveClass = iota
	classBlockStart
	classSectionStart
	classEnd
	classAligned
)

// endTargets maps a lower-cased end directive to the directives it closes.
var endTargets = map[string][]string{
	"endif":          {"if", "hassection", "sectionmissing"},
	"endunless":      {"unless"},
	"endisset":       {"isset"},
	"endempty":       {"empty"},
	"endfor":         {"for"},
	"endforeach":     {"foreach"},
	"endforelse":     {"forelse"},
	"endwhile":       {"while"},
	"endswitch":      {"switch"},
	"endauth":        {"auth"},
	"endguest":       {"guest"},
	"endcan":         {"can"},
	"endcannot":      {"cannot"},
	"endcanany":      {"canany"},
	"endenv":         {"env"},
	"endproduction":  {"production"},
	"enderror":       {"error"},
	"endonce":        {"once"},
	"endsession":     {"session"},
	"endcontext":     {"context"},
	"endcomponent":   {"component"},
	"endslot":        {"slot"},
	"endfragment":    {"fragment"},
	"endpushif":      {"pushif"},
	"endsection":     {"section"},
	"show":           {"section"},
	"stop":           {"section"},
	"overwrite":      {"section"},
	"append":         {"section"},
	"endpush":        {"push"},
	"endprepend":     {"prepend"},
	"endpushonce":    {"pushonce"},
	"endprependonce": {"prependonce"},
}

var sectionStarts = map[string]bool{
	"section":     true,
	"push":        true,
	"prepend":     true,
	"pushonce":    true,
	"prependonce": true,
}

var blockStarts = map[string]bool{
	"if":             true,
	"unless":         true,
	"isset":          true,
	"empty":          true,
	"for":            true,
	"foreach":        true,
	"forelse":        true,
	"while":          true,
	"switch":         true,
	"auth":           true,
	"guest":          true,
	"can":            true,
	"cannot":         true,
	"canany":         true,
	"env":            true,
	"production":     true,
	"hassection":     true,
	"sectionmissing": true,
	"error":          true,
	"once":           true,
	"session":        true,
	"context":        true,
	"component":      true,
	"slot":           true,
	"fragment":       true,
	"pushif":         true,
}

var alignedDirectives = map[string]bool{
	"else":       true,
	"elseif":     true,
	"elsecan":    true,
	"elsecannot": true,
	"elsecanany": true,
	"elseauth":   true,
	"elseguest":  true,
	"elseenv":    true,
}

// classify decides the nesting role of a directive from its name and
// its parenthesised arguments (empty when absent).
func classify(name, args string) directiveClass {
	key := strings.ToLower(name)

	if _, ok := endTargets[key]; ok {
		return classEnd
	}
	if alignedDirectives[key] {
		return classAligned
	}

	switch key {
	case "empty":
		// Bare @empty is the fallback branch of @forelse.
		if args == "" {
			return classAligned
		}
		return classBlockStart
	case "section":
		// @section('name', 'content') is complete on its own.
		if argCount(args) > 1 {
			return classInline
		}
		return classSectionStart
	case "slot":
		if argCount(args) > 1 {
			return classInline
		}
		return classBlockStart
	}

	if sectionStarts[key] {
		return classSectionStart
	}
	if blockStarts[key] {
		return classBlockStart
	}
	return classInline
}

// closes reports whether the end directive endName closes an opener named open.
func closes(endName, open string) bool {
	for _, target := range endTargets[strings.ToLower(endName)] {
		if target == strings.ToLower(open) {
			return true
		}
	}
	return false
}

// argCount counts top-level comma separated arguments in "(...)".
func argCount(args string) int {
	if len(args) < 2 {
		return 0
	}
	inner := args[1 : len(args)-1]
	if strings.TrimSpace(inner) == "" {
		return 0
	}

	count := 1
	depth := 0
	var quote byte
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				count++
			}
		}
	}
	return count
}

// voidElements never take children or an end tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// markerElements always take an indent step, even at the top level.
var markerElements = map[string]bool{
	"html":   true,
	"head":   true,
	"body":   true,
	"table":  true,
	"thead":  true,
	"tbody":  true,
	"tfoot":  true,
	"tr":     true,
	"ul":     true,
	"ol":     true,
	"select": true,
}

// rawTextElements have bodies the tokenizer returns as a single text token.
var rawTextElements = map[string]bool{
	"script":    true,
	"style":     true,
	"textarea":  true,
	"title":     true,
	"xmp":       true,
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
}
