package shader

// sources.go holds the GLSL programs for the GPU effect paths. Every
// fragment shader must stay numerically equivalent to its CPU twin in
// internal/enhance, working in normalized [0,1] color where the CPU works
// in [0,255] bytes. The alpha channel always passes through untouched.

// QuadVertexSource is the shared identity vertex shader: a full-screen quad
// with pass-through texture coordinates.
const QuadVertexSource = `#version 410 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec2 texCoord;
out vec2 vTexCoord;
void main() {
    vTexCoord = texCoord;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

// IdentitySource copies the input texture unchanged. Used for the GPU
// availability probe and orientation round-trip tests.
const IdentitySource = `#version 410 core
in vec2 vTexCoord;
out vec4 fragColor;
uniform sampler2D frame;
void main() {
    fragColor = texture(frame, vTexCoord);
}
`

// BrightnessSource adds adjustment/100 of full scale to each RGB channel.
const BrightnessSource = `#version 410 core
in vec2 vTexCoord;
out vec4 fragColor;
uniform sampler2D frame;
uniform float adjustment;
void main() {
    vec4 c = texture(frame, vTexCoord);
    float delta = adjustment / 100.0;
    fragColor = vec4(clamp(c.rgb + delta, 0.0, 1.0), c.a);
}
`

// ContrastSource applies the 259-based contrast gain around the 128/255
// midpoint, matching the CPU formula exactly.
const ContrastSource = `#version 410 core
in vec2 vTexCoord;
out vec4 fragColor;
uniform sampler2D frame;
uniform float adjustment;
void main() {
    vec4 c = texture(frame, vTexCoord);
    float factor = 259.0 * (adjustment + 255.0) / (255.0 * (259.0 - adjustment));
    vec3 mid = vec3(128.0 / 255.0);
    fragColor = vec4(clamp(factor * (c.rgb - mid) + mid, 0.0, 1.0), c.a);
}
`

// WhiteBalanceSource shifts red and blue oppositely for a temperature
// adjustment, with a smaller secondary shift on green.
const WhiteBalanceSource = `#version 410 core
in vec2 vTexCoord;
out vec4 fragColor;
uniform sampler2D frame;
uniform float temperature;
void main() {
    vec4 c = texture(frame, vTexCoord);
    float shift = temperature / 100.0 * (50.0 / 255.0);
    vec3 shifted = c.rgb + vec3(shift, shift * 0.2, -shift);
    fragColor = vec4(clamp(shifted, 0.0, 1.0), c.a);
}
`

// ColorCorrectionSource is the combined single-pass correction: contrast on
// the unshifted values first, then brightness and temperature as linear
// offsets, one clamp at the end. Order matches the CPU combined pass.
const ColorCorrectionSource = `#version 410 core
in vec2 vTexCoord;
out vec4 fragColor;
uniform sampler2D frame;
uniform float brightness;
uniform float contrast;
uniform float temperature;
void main() {
    vec4 c = texture(frame, vTexCoord);
    float factor = 259.0 * (contrast + 255.0) / (255.0 * (259.0 - contrast));
    vec3 mid = vec3(128.0 / 255.0);
    vec3 stretched = factor * (c.rgb - mid) + mid;
    float delta = brightness / 100.0;
    float shift = temperature / 100.0 * (50.0 / 255.0);
    vec3 outc = stretched + vec3(delta + shift, delta + shift * 0.2, delta - shift);
    fragColor = vec4(clamp(outc, 0.0, 1.0), c.a);
}
`
