// Package printing contains the print delivery domain: page layouts, output
// devices and target selection, the delivery method chain and the error
// taxonomy shared by the rendering and dispatch stages.
package printing
