// Package hound is a Go client for the Houndify conversational query API.
//
// # Overview
//
// The SDK covers:
//   - Per-request HMAC signing of every outbound call
//   - Translation of the service's non-standard compression headers
//   - Validation of the Hound-Request-Info metadata before it is sent
//   - Multi-turn conversations that thread ConversationState automatically
//   - Structured logging with Zerolog
//
// # Quick Start
//
//	config := hound.NewHoundConfig() // reads HOUND_CLIENT_ID / HOUND_CLIENT_KEY
//	client, err := hound.NewClient(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Text(ctx, "what time is it in paris", hound.RequestInfo{
//		"Latitude":       48.85,
//		"Longitude":      2.35,
//		"UnitPreference": "METRIC",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range resp.LongResults() {
//		fmt.Println(r)
//	}
//
// # Conversations
//
// A Conversation sends the last ConversationState it received with each
// call. It is not safe for concurrent use; use one per dialog.
//
//	conv := client.Converse()
//	conv.Text(ctx, "what is the weather in london", nil)
//	conv.Text(ctx, "and tomorrow", nil) // carries the state from the first reply
//
// # Transport stack
//
// NewClient assembles, from the top:
//
//	http.Client -> DecompressTransport -> Transport (signing) -> http.Transport
//
// Transport must stay beneath DecompressTransport: responses announce their
// compression in Hound-Response-Content-Encoding, which Transport rewrites to
// Content-Encoding before the body is inflated. Both are plain
// http.RoundTrippers and can be composed by hand:
//
//	signing, _ := hound.NewTransport(http.DefaultTransport, creds)
//	httpClient := &http.Client{Transport: &hound.DecompressTransport{Base: signing}}
//
// # Errors
//
//   - *ValidationError: RequestInfo rejected before any network I/O
//   - *APIError: the service answered with ErrorMessage; Error() is the message
//   - *HTTPError: non-2xx status without ErrorMessage
//   - *HoundError: configuration, credentials, transport and audio failures,
//     with a Code such as ErrCodeTransport
//
// Transport failures keep the underlying *url.Error in the chain, so timeouts
// and dial errors stay inspectable:
//
//	var urlErr *url.Error
//	if errors.As(err, &urlErr) && urlErr.Timeout() {
//		// retry later
//	}
//
// The envelope fields ErrorMessage and AllResults[0].ConversationState are
// read from the raw JSON object, so a sibling field of an unexpected type
// never hides a service error. Response.Server is a best-effort typed view.
//
// A body that is not a JSON object is not an error; Response.Server is nil and
// Response.Body holds the raw bytes.
//
// # Audio
//
// Speech queries take WAV bytes. EncodeWAV wraps PCM samples; microphone
// capture lives in the cgo-backed subpackage pkg/hound/capture:
//
//	rec := capture.NewPortAudioRecorder(capture.NewConfig())
//	samples, _ := rec.Record(ctx, 5*time.Second)
//	wavData, _ := hound.EncodeWAV(samples, 16000, 1)
//	resp, err := client.Speech(ctx, wavData, nil)
package hound
