// Package theme provides CSS theming for ncenterd popups.
//
// Themes are looked up in ~/.config/ncenter/themes first and then among
// the bundled stylesheets. @import statements are inlined when a theme is
// loaded, and bundled partials (files starting with _) may be imported by
// user themes.
package theme
