// Package extract implements structural link and text extraction from
// fetched university pages.
//
// A Document is parsed once per response and classifies every anchor into
// zones by looking at its ancestor chain:
//
//   - Header: inside a <header> element or an element whose attributes
//     mention "head"
//   - Menu: inside a <nav> element or an element whose attributes mention
//     "menu"
//   - Main content: everything in the body that is not header, footer or
//     page furniture (banners, breadcrumbs, quick links)
//
// Extraction never fails. Markup that cannot be parsed produces a Document
// with no links and no text.
package extract
