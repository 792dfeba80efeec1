// ABOUTME: Audio encoder package for wrapping PCM into playable containers
// ABOUTME: Provides base64 PCM decoding, WAV header construction and the PCM sample encoder
// Package encode turns raw PCM into bytes a standard audio decoder can play.
//
// The main entry point is EncodeBase64, which takes the base64 PCM payload returned
// by a speech API and produces a complete WAV (RIFF/WAVE) container:
//
//	container, err := encode.EncodeBase64(payload, audio.DefaultSpeechFormat)
//	if err != nil {
//	    var decErr *encode.DecodeError
//	    var fmtErr *encode.InvalidFormatError
//	    // errors.As(err, &decErr) / errors.As(err, &fmtErr)
//	}
//	os.WriteFile("out.wav", container.Bytes(), 0644)
//
// Every function in this package is pure: no I/O, no shared state, safe for
// concurrent use. Containers are immutable once built.
//
// The Encoder interface covers sample-level encoders (int32 samples in 24-bit range
// to wire bytes): NewPCM produces headerless PCM and NewWAV produces a WAV file.
package encode
