// Package gmail fetches messages from the Gmail API and extracts their
// headers and bodies.
//
// Fetching is strictly sequential: one list call, then one get call per
// listed message in listing order. The first failure aborts the whole fetch
// and no partial result is returned.
//
// Body extraction walks the message payload tree depth-first, pre-order,
// children in order. Three policies share the walk:
//   - Body fails on the first malformed part (DecodeError).
//   - Snippet skips malformed parts and falls back to the snippet Gmail
//     computes for the message.
//   - CollectBody joins the text of every readable part.
//
// A part whose body data is present but empty counts as having no data.
package gmail
