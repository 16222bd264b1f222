// Package openapi reads settings descriptors published as OpenAPI 3 component
// schemas. Components carrying an "x-setting" extension become descriptors;
// the root "x-settings-groups" extension declares the group layout.
package openapi
