package xmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	{URI: "urn:root", Location: "https://example.com/root.xsd"},
	{Prefix: "x", URI: "urn:ext", Location: "https://example.com/ext.xsd"},
	{Prefix: "xsi", URI: XSINamespace},
}

func TestSchemaLocationPairsOnlyLocatedNamespaces(t *testing.T) {
	require.Equal(t,
		"urn:root https://example.com/root.xsd urn:ext https://example.com/ext.xsd",
		testSchema.SchemaLocation())
	require.Equal(t, "xsi", testSchema.XSIPrefix())
}

func TestMarshalWritesDeclarationsAndIndent(t *testing.T) {
	doc := New(testSchema, "root")
	doc.Root.SetAttr("version", "1.1")
	item := doc.Root.Add("item")
	item.SetAttrNS("xsi", "type", "Thing_t")
	item.AddText("name", "a & b")
	item.AddTextNS("x", "value", "42")

	out, err := doc.Marshal()
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<root xmlns="urn:root" xmlns:x="urn:ext" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" version="1.1" xsi:schemaLocation="urn:root https://example.com/root.xsd urn:ext https://example.com/ext.xsd">
  <item xsi:type="Thing_t">
    <name>a &amp; b</name>
    <x:value>42</x:value>
  </item>
</root>
`
	require.Equal(t, want, string(out))
}

func TestMarshalRejectsUndeclaredPrefix(t *testing.T) {
	doc := New(testSchema, "root")
	doc.Root.AddTextNS("nope", "value", "1")

	_, err := doc.Marshal()
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), `"nope"`))
}

func TestSetAttrReplaces(t *testing.T) {
	e := &Element{Name: "e"}
	e.SetAttr("k", "1").SetAttr("k", "2")
	require.Len(t, e.Attrs, 1)
	require.Equal(t, "2", e.Attrs[0].Value)
}
