// Command snippetctl inspects and prepares the environment the transcribe and
// frame-extractor utilities run in.
//
// Subcommands:
//   - status: engine availability, versions, and directory checks
//   - tessdata fetch: download missing tesseract language data
//   - config init / config validate: manage the TOML configuration file
package main
