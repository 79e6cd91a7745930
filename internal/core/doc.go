// Package core provides the business logic for converting spreadsheets to
// delimited text.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, the CLI or tests without
// modification.
//
// # Architecture
//
// The package is organized around a few concepts:
//
//   - Upload: an in-memory copy of a user's .xls or .xlsx file. Every read
//     opens a fresh [Source] over the bytes, so each parse starts at offset 0.
//   - Workbook: a parsed file exposing sheet names in file order and a
//     [Table] per sheet. .xlsx files are read with excelize, legacy .xls
//     files with xlrd-go.
//   - ExportOptions: delimiter, encoding, decimal separator, header flag and
//     quoting mode. [ResolveOptions] fills anything the user left unset from
//     [DefaultOptions].
//   - Service: the entry point for upload, preview and export. Sessions are
//     held in memory only and expire when idle.
//
// # Conversion
//
// The flow for one export is:
//
//  1. Client uploads a file with [Service.Upload]; the extension picks the engine
//  2. [Service.Preview] reads at most [DefaultPreviewRows] rows of a sheet
//  3. [Service.Export] reads the whole sheet, serializes it with the resolved
//     options and encodes it, replacing unrepresentable characters
//  4. The result is named "{base}__{sheet}__{YYYYMMDD_HHMMSS}.csv"
//
// # Error Handling
//
// Failures carry a [Kind] (unsupported format, read, preview, export,
// format, not found). [MapError] turns them into user-facing messages with
// a support code:
//
//   - FILE001-FILE004: File errors (size, format, missing, empty)
//   - XLS001-XLS003: Workbook errors (unreadable, wrong extension, sheet)
//   - PRV001, EXP001-EXP003: Preview and export errors
//   - SES001, UPL002-UPL005, RATE001: Session and capacity errors
package core
