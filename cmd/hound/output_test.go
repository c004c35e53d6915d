package main

import (
	"bytes"
	"testing"

	"github.com/rojolang/hound-sdk-go/pkg/hound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJQ(t *testing.T, expr string) {
	t.Helper()
	prev := jqExpr
	jqExpr = expr
	t.Cleanup(func() { jqExpr = prev })
}

func TestRunJQ(t *testing.T) {
	var buf bytes.Buffer
	body := []byte(`{"Status":"OK","AllResults":[{"WrittenResponse":"one"},{"WrittenResponse":"two"}]}`)

	require.NoError(t, runJQ(&buf, ".AllResults[].WrittenResponse", body))
	assert.Equal(t, "one\ntwo\n", buf.String())

	buf.Reset()
	require.NoError(t, runJQ(&buf, ".AllResults | length", body))
	assert.Equal(t, "2\n", buf.String())
}

func TestRunJQErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runJQ(&buf, ".[", []byte(`{}`)))
	assert.Error(t, runJQ(&buf, ".", []byte(`not json`)))
	assert.Error(t, runJQ(&buf, `error("boom")`, []byte(`{}`)))
}

func TestPrintResponse(t *testing.T) {
	withJQ(t, "")

	var buf bytes.Buffer
	resp := &hound.Response{
		Body: []byte(`{"AllResults":[{"NativeData":{"LongResult":"Sunny"}}]}`),
		Server: &hound.HoundServer{AllResults: []hound.CommandResult{
			{NativeData: &hound.NativeData{LongResult: "Sunny"}},
		}},
	}
	require.NoError(t, printResponse(&buf, resp))
	assert.Equal(t, "Sunny\n", buf.String())

	buf.Reset()
	require.NoError(t, printResponse(&buf, &hound.Response{Body: []byte(`{"Status":"OK"}`)}))
	assert.Equal(t, "{\n  \"Status\": \"OK\"\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, printResponse(&buf, &hound.Response{Body: []byte("plain text")}))
	assert.Equal(t, "plain text", buf.String())
}

func TestPrintResponseWithJQ(t *testing.T) {
	withJQ(t, ".Status")

	var buf bytes.Buffer
	resp := &hound.Response{Body: []byte(`{"Status":"OK"}`)}
	require.NoError(t, printResponse(&buf, resp))
	assert.Equal(t, "OK\n", buf.String())
}

func TestParseInfo(t *testing.T) {
	prev := infoJSON
	t.Cleanup(func() { infoJSON = prev })

	infoJSON = ""
	info, err := parseInfo()
	require.NoError(t, err)
	assert.Nil(t, info)

	infoJSON = `{"Latitude": 37.38, "MaxResults": 3}`
	info, err = parseInfo()
	require.NoError(t, err)
	_, err = hound.ValidateRequestInfo(info)
	assert.NoError(t, err)

	infoJSON = `{"MinResults": 1.0, "TimeStamp": 1418068667.0}`
	info, err = parseInfo()
	require.NoError(t, err)
	_, err = hound.ValidateRequestInfo(info)
	assert.NoError(t, err)

	infoJSON = `{"MinResults": 1.5}`
	info, err = parseInfo()
	require.NoError(t, err)
	_, err = hound.ValidateRequestInfo(info)
	assert.True(t, hound.IsValidationError(err))

	infoJSON = `[1,2]`
	_, err = parseInfo()
	assert.Error(t, err)
}
