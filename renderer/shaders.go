package renderer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"rendering-engine/internal/gfx"
)

// Program names double as override file stems: <ShaderDir>/<name>.vert etc.
const (
	progFlat     = "flat"
	progNormal   = "normal"
	progGBuffer  = "gbuffer"
	progDepth    = "depth"
	progPhong    = "phong"
	progCSM      = "csm"
	progCSMDebug = "csmdebug"
	progGBufView = "gbufferview"
)

// maxCascades sizes the cascade uniform arrays in the csm program.
const maxCascades = 8

// CascadeCount layers must fit the csm uniform arrays.
var _ [maxCascades - CascadeCount]struct{}

var builtinPrograms = map[string]gfx.ProgramSource{
	progFlat:     {Vertex: meshVertSrc, Fragment: flatFragSrc},
	progNormal:   {Vertex: normalVertSrc, Geometry: normalGeomSrc, Fragment: normalFragSrc},
	progGBuffer:  {Vertex: meshVertSrc, Fragment: gbufferFragSrc},
	progDepth:    {Vertex: depthVertSrc, Fragment: depthFragSrc},
	progPhong:    {Vertex: phongVertSrc, Fragment: phongFragSrc},
	progCSM:      {Vertex: meshVertSrc, Fragment: csmFragSrc},
	progCSMDebug: {Vertex: quadVertSrc, Fragment: csmDebugFragSrc},
	progGBufView: {Vertex: quadVertSrc, Fragment: gbufferViewFragSrc},
}

// programSource returns the built-in stages of name, each replaced by
// <dir>/<name>.<stage> when that file exists.
func programSource(dir, name string) (gfx.ProgramSource, error) {
	src, ok := builtinPrograms[name]
	if !ok {
		return gfx.ProgramSource{}, fmt.Errorf("no program %q", name)
	}
	if dir == "" {
		return src, nil
	}
	stages := []struct {
		ext string
		dst *string
	}{
		{".vert", &src.Vertex},
		{".geom", &src.Geometry},
		{".frag", &src.Fragment},
	}
	for _, st := range stages {
		data, err := os.ReadFile(filepath.Join(dir, name+st.ext))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return gfx.ProgramSource{}, fmt.Errorf("shader %s%s: %w", name, st.ext, err)
		}
		*st.dst = string(data)
	}
	return src, nil
}

// ── Shared vertex stage ──────────────────────────────────────────────────────

// meshVertSrc feeds flat, gbuffer and csm with world-space varyings.
const meshVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexCoords;
layout(location = 3) in vec3 aTangent;
layout(location = 4) in vec3 aBitangent;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;

out VS_OUT {
    vec3 FragPos;
    vec3 Normal;
    vec2 TexCoords;
    mat3 TBN;
} vs_out;

void main() {
    vec4 world = model * vec4(aPos, 1.0);
    mat3 normalMat = transpose(inverse(mat3(model)));
    vec3 N = normalize(normalMat * aNormal);
    vec3 T = normalMat * aTangent;
    T = length(T) > 0.0 ? normalize(T - dot(T, N) * N) : vec3(1.0, 0.0, 0.0);
    vs_out.FragPos = world.xyz;
    vs_out.Normal = N;
    vs_out.TexCoords = aTexCoords;
    vs_out.TBN = mat3(T, cross(N, T), N);
    gl_Position = projection * view * world;
}
`

// ── Flat ─────────────────────────────────────────────────────────────────────

const flatFragSrc = `
#version 410 core
struct Material {
    vec3 color;
};
uniform Material material;
out vec4 FragColor;
void main() {
    FragColor = vec4(material.color, 1.0);
}
`

// ── Normal visualization ─────────────────────────────────────────────────────

const normalVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;

uniform mat4 view;
uniform mat4 model;

out VS_OUT {
    vec3 normal;
} vs_out;

void main() {
    mat3 normalMat = mat3(transpose(inverse(view * model)));
    vs_out.normal = normalize(normalMat * aNormal);
    gl_Position = view * model * vec4(aPos, 1.0);
}
`

const normalGeomSrc = `
#version 410 core
layout(triangles) in;
layout(line_strip, max_vertices = 6) out;

in VS_OUT {
    vec3 normal;
} gs_in[];

uniform mat4 projection;
const float MAGNITUDE = 0.2;

void emitNormal(int i) {
    gl_Position = projection * gl_in[i].gl_Position;
    EmitVertex();
    gl_Position = projection * (gl_in[i].gl_Position + vec4(gs_in[i].normal, 0.0) * MAGNITUDE);
    EmitVertex();
    EndPrimitive();
}

void main() {
    emitNormal(0);
    emitNormal(1);
    emitNormal(2);
}
`

const normalFragSrc = `
#version 410 core
out vec4 FragColor;
void main() {
    FragColor = vec4(1.0, 1.0, 0.0, 1.0);
}
`

// ── Depth ────────────────────────────────────────────────────────────────────

const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPos;
uniform mat4 lightSpaceMatrix;
uniform mat4 model;
void main() {
    gl_Position = lightSpaceMatrix * model * vec4(aPos, 1.0);
}
`

const depthFragSrc = `
#version 410 core
void main() {}
`

// ── Phong with a single shadow map ───────────────────────────────────────────

const phongVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexCoords;
layout(location = 3) in vec3 aTangent;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;
uniform mat4 lightSpaceMatrix;

out VS_OUT {
    vec3 FragPos;
    vec3 Normal;
    vec2 TexCoords;
    mat3 TBN;
    vec4 FragPosLightSpace;
} vs_out;

void main() {
    vec4 world = model * vec4(aPos, 1.0);
    mat3 normalMat = transpose(inverse(mat3(model)));
    vec3 N = normalize(normalMat * aNormal);
    vec3 T = normalMat * aTangent;
    T = length(T) > 0.0 ? normalize(T - dot(T, N) * N) : vec3(1.0, 0.0, 0.0);
    vs_out.FragPos = world.xyz;
    vs_out.Normal = N;
    vs_out.TexCoords = aTexCoords;
    vs_out.TBN = mat3(T, cross(N, T), N);
    vs_out.FragPosLightSpace = lightSpaceMatrix * world;
    gl_Position = projection * view * world;
}
`

// phongLightingSrc is shared by the phong and csm fragment stages.
const phongLightingSrc = `
struct Material {
    vec3 ambient;
    vec3 diffuse;
    vec3 specular;
    float shininess;
};

struct DirLight {
    vec3 direction;
    vec3 ambient;
    vec3 diffuse;
    vec3 specular;
    float intensity;
};

uniform Material material;
uniform DirLight dLight;
uniform vec3 viewPos;

uniform sampler2D texture_diffuse1;
uniform sampler2D texture_specular1;
uniform sampler2D texture_normal1;
uniform bool use_texture_kd;
uniform bool use_texture_ks;
uniform bool use_texture_normal;
uniform bool useShadow;

vec3 surfaceNormal() {
    if (use_texture_normal) {
        vec3 n = texture(texture_normal1, fs_in.TexCoords).rgb * 2.0 - 1.0;
        return normalize(fs_in.TBN * n);
    }
    return normalize(fs_in.Normal);
}

vec3 shade(vec3 N, float shadow) {
    vec3 kd = use_texture_kd ? texture(texture_diffuse1, fs_in.TexCoords).rgb : material.diffuse;
    vec3 ka = use_texture_kd ? kd * material.ambient : material.ambient;
    vec3 ks = use_texture_ks ? texture(texture_specular1, fs_in.TexCoords).rgb : material.specular;

    vec3 L = normalize(dLight.direction);
    vec3 V = normalize(viewPos - fs_in.FragPos);
    vec3 H = normalize(L + V);

    vec3 ambient = dLight.ambient * ka;
    vec3 diffuse = dLight.diffuse * kd * max(dot(N, L), 0.0);
    vec3 specular = dLight.specular * ks * pow(max(dot(N, H), 0.0), max(material.shininess, 1.0));
    return ambient + dLight.intensity * (1.0 - shadow) * (diffuse + specular);
}
`

const phongFragSrc = `
#version 410 core
out vec4 FragColor;

in VS_OUT {
    vec3 FragPos;
    vec3 Normal;
    vec2 TexCoords;
    mat3 TBN;
    vec4 FragPosLightSpace;
} fs_in;

uniform sampler2D shadowMap;
` + phongLightingSrc + `
float shadowFactor(vec3 N) {
    vec3 p = fs_in.FragPosLightSpace.xyz / fs_in.FragPosLightSpace.w;
    p = p * 0.5 + 0.5;
    if (p.z > 1.0) {
        return 0.0;
    }
    float bias = max(0.05 * (1.0 - dot(N, normalize(dLight.direction))), 0.005);
    vec2 texel = 1.0 / vec2(textureSize(shadowMap, 0));
    float shadow = 0.0;
    for (int x = -1; x <= 1; ++x) {
        for (int y = -1; y <= 1; ++y) {
            float depth = texture(shadowMap, p.xy + vec2(x, y) * texel).r;
            shadow += p.z - bias > depth ? 1.0 : 0.0;
        }
    }
    return shadow / 9.0;
}

void main() {
    vec3 N = surfaceNormal();
    float shadow = useShadow ? shadowFactor(N) : 0.0;
    FragColor = vec4(shade(N, shadow), 1.0);
}
`

// ── Cascaded shadow maps ─────────────────────────────────────────────────────

var csmFragSrc = `
#version 410 core
#define MAX_CASCADES ` + strconv.Itoa(maxCascades) + `
out vec4 FragColor;

in VS_OUT {
    vec3 FragPos;
    vec3 Normal;
    vec2 TexCoords;
    mat3 TBN;
} fs_in;

uniform mat4 view;
uniform sampler2DArray shadowMap;
uniform mat4 lightSpaceMatrices[MAX_CASCADES];
uniform float cascadePlaneDistances[MAX_CASCADES];
uniform int cascadeCount;
uniform float farPlane;
uniform bool layerVisualization;
` + phongLightingSrc + `
int cascadeLayer() {
    float depth = abs((view * vec4(fs_in.FragPos, 1.0)).z);
    for (int i = 0; i < cascadeCount; ++i) {
        if (depth < cascadePlaneDistances[i]) {
            return i;
        }
    }
    return cascadeCount;
}

float shadowFactor(vec3 N, int layer) {
    vec4 ls = lightSpaceMatrices[layer] * vec4(fs_in.FragPos, 1.0);
    vec3 p = ls.xyz / ls.w;
    p = p * 0.5 + 0.5;
    if (p.z > 1.0) {
        return 0.0;
    }
    float bias = max(0.05 * (1.0 - dot(N, normalize(dLight.direction))), 0.005);
    float far = layer == cascadeCount ? farPlane : cascadePlaneDistances[layer];
    bias *= 1.0 / (far * 0.5);
    vec2 texel = 1.0 / vec2(textureSize(shadowMap, 0));
    float shadow = 0.0;
    for (int x = -1; x <= 1; ++x) {
        for (int y = -1; y <= 1; ++y) {
            float depth = texture(shadowMap, vec3(p.xy + vec2(x, y) * texel, layer)).r;
            shadow += p.z - bias > depth ? 1.0 : 0.0;
        }
    }
    return shadow / 9.0;
}

const vec3 layerTint[5] = vec3[](
    vec3(1.0, 0.3, 0.3), vec3(0.3, 1.0, 0.3), vec3(0.3, 0.3, 1.0),
    vec3(1.0, 1.0, 0.3), vec3(1.0, 0.3, 1.0));

void main() {
    vec3 N = surfaceNormal();
    int layer = cascadeLayer();
    float shadow = useShadow ? shadowFactor(N, layer) : 0.0;
    vec3 color = shade(N, shadow);
    if (layerVisualization) {
        color *= layerTint[layer % 5];
    }
    FragColor = vec4(color, 1.0);
}
`

const quadVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec2 aTexCoords;
out vec2 TexCoords;
void main() {
    TexCoords = aTexCoords;
    gl_Position = vec4(aPos, 1.0);
}
`

const csmDebugFragSrc = `
#version 410 core
out vec4 FragColor;
in vec2 TexCoords;
uniform sampler2DArray depthMap;
uniform int layer;
void main() {
    float depth = texture(depthMap, vec3(TexCoords, layer)).r;
    FragColor = vec4(vec3(depth), 1.0);
}
`

// ── Geometry buffer ──────────────────────────────────────────────────────────

const gbufferFragSrc = `
#version 410 core
layout(location = 0) out vec4 gPosition;
layout(location = 1) out vec4 gDiffuse;
layout(location = 2) out vec4 gNormal;
layout(location = 3) out vec4 gTexCoord;

in VS_OUT {
    vec3 FragPos;
    vec3 Normal;
    vec2 TexCoords;
    mat3 TBN;
} fs_in;

struct Material {
    vec3 ambient;
    vec3 diffuse;
    vec3 specular;
    float shininess;
};
uniform Material material;

uniform sampler2D texture_diffuse1;
uniform sampler2D texture_specular1;
uniform sampler2D texture_normal1;
uniform bool use_texture_kd;
uniform bool use_texture_ks;
uniform bool use_texture_normal;

void main() {
    vec3 N = normalize(fs_in.Normal);
    if (use_texture_normal) {
        N = normalize(fs_in.TBN * (texture(texture_normal1, fs_in.TexCoords).rgb * 2.0 - 1.0));
    }
    vec3 kd = use_texture_kd ? texture(texture_diffuse1, fs_in.TexCoords).rgb : material.diffuse;
    float ks = use_texture_ks ? texture(texture_specular1, fs_in.TexCoords).r : material.specular.r;

    gPosition = vec4(fs_in.FragPos, 1.0);
    gDiffuse = vec4(kd, ks);
    gNormal = vec4(N * 0.5 + 0.5, 1.0);
    gTexCoord = vec4(fract(fs_in.TexCoords), 0.0, 1.0);
}
`

// gbufferViewFragSrc shows one gbuffer channel on the screen quad.
const gbufferViewFragSrc = `
#version 410 core
out vec4 FragColor;
in vec2 TexCoords;
uniform sampler2D channel;
void main() {
    FragColor = vec4(texture(channel, TexCoords).rgb, 1.0);
}
`
