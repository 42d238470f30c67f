package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fzft/go-resp3/resp"
	"gopkg.in/yaml.v3"
)

// printer writes values in one output mode. close flushes buffered
// documents.
type printer struct {
	w    io.Writer
	mode OutputMode
	json *json.Encoder
	yaml *yaml.Encoder
}

func newPrinter(w io.Writer, mode OutputMode) *printer {
	p := &printer{w: w, mode: mode}
	switch mode {
	case OutputJson:
		p.json = json.NewEncoder(w)
		p.json.SetEscapeHTML(false)
	case OutputYaml:
		p.yaml = yaml.NewEncoder(w)
		p.yaml.SetIndent(2)
	}
	return p
}

func (p *printer) print(v resp.Value) error {
	switch p.mode {
	case OutputRaw:
		_, err := p.w.Write(resp.AppendValue(nil, v))
		return err
	case OutputJson:
		return p.json.Encode(toTree(v))
	case OutputYaml:
		return p.yaml.Encode(toTree(v))
	}
	printNode(p.w, v, "")
	return nil
}

func (p *printer) close() error {
	if p.yaml != nil {
		return p.yaml.Close()
	}
	return nil
}

// printNode writes the indented typed tree of the standard output mode.
func printNode(w io.Writer, node resp.Value, indent string) {
	switch n := node.(type) {
	case resp.Array:
		fmt.Fprintln(w, indent+"Array:")
		printAttribute(w, n.Attr, indent)
		for _, elem := range n.Elements {
			printNode(w, elem, indent+"  ")
		}
	case resp.Set:
		fmt.Fprintln(w, indent+"Set:")
		printAttribute(w, n.Attr, indent)
		for _, elem := range n.Elements {
			printNode(w, elem, indent+"  ")
		}
	case resp.Map:
		fmt.Fprintln(w, indent+"Map:")
		printAttribute(w, n.Attr, indent)
		printPairs(w, n.Pairs, indent+"  ")
	default:
		fmt.Fprintln(w, indent+scalarLine(node))
		printAttribute(w, node.Attribute(), indent)
	}
}

func printAttribute(w io.Writer, attr *resp.Attribute, indent string) {
	if attr == nil {
		return
	}
	fmt.Fprintln(w, indent+"  Attribute:")
	printPairs(w, attr.Pairs, indent+"    ")
}

func printPairs(w io.Writer, pairs []resp.Pair, indent string) {
	for _, p := range pairs {
		fmt.Fprintln(w, indent+"Key:")
		printNode(w, p.Key, indent+"  ")
		fmt.Fprintln(w, indent+"Value:")
		printNode(w, p.Value, indent+"  ")
	}
}

func scalarLine(node resp.Value) string {
	switch n := node.(type) {
	case resp.BigNumber:
		return "BigNumber: " + n.String()
	case resp.BlobError:
		return "BlobError: " + strconv.Quote(n.Error())
	case resp.BlobString:
		return "BlobString: " + strconv.Quote(n.Value)
	case resp.Boolean:
		return "Boolean: " + strconv.FormatBool(n.Value)
	case resp.Double:
		return "Double: " + n.String()
	case resp.Number:
		return "Number: " + strconv.FormatInt(n.Value, 10)
	case resp.SimpleError:
		return "SimpleError: " + n.Error()
	case resp.SimpleString:
		return "SimpleString: " + n.Value
	case resp.VerbatimString:
		return fmt.Sprintf("VerbatimString (Format: %s): %s", n.Format, n.Value)
	}
	return "Null"
}

// toTree converts v to plain maps, slices and scalars for the json and yaml
// encoders. A value with an attribute becomes {attributes, value}.
func toTree(v resp.Value) any {
	tree := payloadTree(v)
	if attr := v.Attribute(); attr != nil {
		return map[string]any{
			"attributes": pairsTree(attr.Pairs),
			"value":      tree,
		}
	}
	return tree
}

func payloadTree(v resp.Value) any {
	switch n := v.(type) {
	case resp.Array:
		return valuesTree(n.Elements)
	case resp.Set:
		return valuesTree(n.Elements)
	case resp.Map:
		return pairsTree(n.Pairs)
	case resp.BigNumber:
		return n.String()
	case resp.BlobError:
		return map[string]any{"error": n.Error()}
	case resp.SimpleError:
		return map[string]any{"error": n.Error()}
	case resp.BlobString:
		return n.Value
	case resp.SimpleString:
		return n.Value
	case resp.VerbatimString:
		return n.Value
	case resp.Boolean:
		return n.Value
	case resp.Number:
		return n.Value
	case resp.Double:
		if n.IsInf() {
			return n.String()
		}
		return n.Float64()
	}
	return nil
}

func valuesTree(elems []resp.Value) []any {
	out := make([]any, 0, len(elems))
	for _, e := range elems {
		out = append(out, toTree(e))
	}
	return out
}

// pairsTree gives an object when every key is a plain string, and a list of
// [key, value] pairs otherwise.
func pairsTree(pairs []resp.Pair) any {
	obj := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, ok := stringKey(p.Key)
		if _, dup := obj[key]; !ok || dup {
			return pairList(pairs)
		}
		obj[key] = toTree(p.Value)
	}
	return obj
}

func pairList(pairs []resp.Pair) []any {
	out := make([]any, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, []any{toTree(p.Key), toTree(p.Value)})
	}
	return out
}

func stringKey(v resp.Value) (string, bool) {
	if v.Attribute() != nil {
		return "", false
	}
	switch k := v.(type) {
	case resp.SimpleString:
		return k.Value, true
	case resp.BlobString:
		return k.Value, true
	}
	return "", false
}
